package capture

import "strings"

// Surface identifies which acquisition affordance produced a file.
type Surface string

const (
	SurfaceCamera  Surface = "camera"
	SurfaceGallery Surface = "gallery"
)

// AcceptPolicy maps each acquisition surface to the MIME types it admits.
// A "<type>/*" entry matches every subtype.
type AcceptPolicy map[Surface][]string

// DefaultAcceptPolicy mirrors the capture modal's two inputs: the camera
// accepts anything self-declared as an image (camera apps emit broad types),
// while the gallery picker is restricted to the common still formats.
func DefaultAcceptPolicy() AcceptPolicy {
	return AcceptPolicy{
		SurfaceCamera:  {"image/*"},
		SurfaceGallery: {"image/jpeg", "image/png", "image/webp"},
	}
}

// Accepts reports whether the surface admits a file of the given MIME type.
// Unknown surfaces admit nothing.
func (p AcceptPolicy) Accepts(surface Surface, mimeType string) bool {
	accepted, ok := p[surface]
	if !ok {
		return false
	}
	for _, a := range accepted {
		if a == mimeType {
			return true
		}
		if prefix, wildcard := strings.CutSuffix(a, "/*"); wildcard && strings.HasPrefix(mimeType, prefix+"/") {
			return true
		}
	}
	return false
}
