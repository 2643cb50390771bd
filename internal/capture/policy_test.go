package capture

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultAcceptPolicy(t *testing.T) {
	policy := DefaultAcceptPolicy()

	// Camera admits any self-declared image type.
	require.True(t, policy.Accepts(SurfaceCamera, "image/jpeg"))
	require.True(t, policy.Accepts(SurfaceCamera, "image/heic"))
	require.False(t, policy.Accepts(SurfaceCamera, "video/mp4"))

	// Gallery is restricted to the common still formats.
	require.True(t, policy.Accepts(SurfaceGallery, "image/jpeg"))
	require.True(t, policy.Accepts(SurfaceGallery, "image/png"))
	require.True(t, policy.Accepts(SurfaceGallery, "image/webp"))
	require.False(t, policy.Accepts(SurfaceGallery, "image/gif"))
	require.False(t, policy.Accepts(SurfaceGallery, "image/heic"))

	// Unknown surfaces admit nothing.
	require.False(t, policy.Accepts(Surface("scanner"), "image/jpeg"))
}

func TestAcceptPolicyWildcardDoesNotMatchBareType(t *testing.T) {
	policy := AcceptPolicy{SurfaceCamera: {"image/*"}}
	require.False(t, policy.Accepts(SurfaceCamera, "image"))
}
