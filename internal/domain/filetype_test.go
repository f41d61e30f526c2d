package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileTypeForMIME(t *testing.T) {
	assert.Equal(t, FileTypeMP4, FileTypeForMIME("video/mp4"))
	assert.Equal(t, FileTypeMP4, FileTypeForMIME("VIDEO/X-M4V"))
	assert.Equal(t, FileTypeMKV, FileTypeForMIME("video/x-matroska"))
	assert.Equal(t, FileTypeMP3, FileTypeForMIME("audio/mpeg; charset=binary"))
	assert.Equal(t, FileTypeUnknown, FileTypeForMIME("application/octet-stream"))
	assert.Equal(t, FileTypeUnknown, FileTypeForMIME(""))
}

func TestFileTypeForFormat(t *testing.T) {
	assert.Equal(t, FileTypeMP4, FileTypeForFormat("mov,mp4,m4a,3gp,3g2,mj2"))
	assert.Equal(t, FileTypeMKV, FileTypeForFormat("matroska,webm"))
	assert.Equal(t, FileTypeAVI, FileTypeForFormat("avi"))
	assert.Equal(t, FileTypeUnknown, FileTypeForFormat("image2"))
}

func TestFileType_IsVideo(t *testing.T) {
	assert.True(t, FileTypeMKV.IsVideo())
	assert.False(t, FileTypeMP3.IsVideo())
	assert.False(t, FileTypeUnknown.IsVideo())
}

func TestRole_HasPermission(t *testing.T) {
	assert.True(t, RoleAdmin.HasPermission(RoleUser))
	assert.True(t, RoleUser.HasPermission(RoleUser))
	assert.False(t, RoleGuest.HasPermission(RoleUser))
	assert.False(t, RoleUser.HasPermission(RoleAdmin))
}
