package service

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/picture-gallery/internal/model"
)

func pngUpload(title, filename string, data []byte) UploadInput {
	return UploadInput{
		Title:       title,
		Contents:    "かわいい",
		Filename:    filename,
		ContentType: "image/png",
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	}
}

func TestUploadVisibleInListAllAndMine(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "alice@example.com")

	pic, err := f.gallery.Upload(t.Context(), alice, pngUpload("  cat  ", "cat.png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.Positive(t, pic.ID)
	assert.Equal(t, "cat", pic.Title)
	assert.Equal(t, "alice", pic.UserName)
	assert.Equal(t, alice.ID, pic.UserID)

	all, err := f.gallery.ListAll(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, pic.ID, all[0].ID)

	mine, err := f.gallery.ListMine(t.Context(), alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, pic.ImagePath, mine[0].ImagePath)
	assert.Equal(t, "かわいい", mine[0].Contents)
}

func TestUploadRejectsOversize(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "alice@example.com")

	_, err := f.gallery.Upload(t.Context(), alice, pngUpload("big", "big.png", make([]byte, 1572865)))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "ファイルサイズは1.5MB以下にしてください", UserMessage(err))

	assert.Zero(t, f.countPictures(t))
	assert.Zero(t, f.store.Len())

	_, err = f.gallery.Upload(t.Context(), alice, pngUpload("max", "max.png", make([]byte, 1572864)))
	assert.NoError(t, err)
}

func TestUploadRejectsMissingTitleOrBody(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "alice@example.com")

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := f.gallery.Upload(t.Context(), alice, pngUpload(title, "cat.png", []byte("ok")))
		assert.ErrorIs(t, err, ErrValidation, "title %q", title)
	}

	in := pngUpload("cat", "cat.png", nil)
	in.Body = nil
	_, err := f.gallery.Upload(t.Context(), alice, in)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Zero(t, f.countPictures(t))
	assert.Zero(t, f.store.Len())
}

func TestUploadRejectsContentType(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "alice@example.com")

	in := pngUpload("doc", "doc.svg", []byte("<svg/>"))
	in.ContentType = "image/svg+xml"
	_, err := f.gallery.Upload(t.Context(), alice, in)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.store.Len())

	for _, ct := range []string{"image/png", "image/jpeg", "image/jpg", "image/gif", "image/webp"} {
		in := pngUpload("ok", "x.img", []byte("x"))
		in.ContentType = ct
		_, err := f.gallery.Upload(t.Context(), alice, in)
		assert.NoError(t, err, ct)
	}
}

func TestUploadStorageFailureWritesNoRow(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "alice@example.com")
	f.store.putErr = errBoom

	_, err := f.gallery.Upload(t.Context(), alice, pngUpload("cat", "cat.png", []byte("x")))
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, f.countPictures(t))
}

func TestUploadRowFailureRemovesBlob(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "alice@example.com")
	gallery := NewGalleryService(failingPictureRepository{f.pictures}, f.store).WithClock(f.clock.Now)

	_, err := gallery.Upload(t.Context(), alice, pngUpload("cat", "cat.png", []byte("x")))
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.store.Len())
}

func TestListOrderingNewestFirstTiesByInsertion(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "alice@example.com")
	bob := f.user(t, "bob", "bob@example.com")

	old, err := f.gallery.Upload(t.Context(), alice, pngUpload("old", "a.png", []byte("a")))
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	t1, err := f.gallery.Upload(t.Context(), bob, pngUpload("t1", "b.png", []byte("b")))
	require.NoError(t, err)
	t2, err := f.gallery.Upload(t.Context(), alice, pngUpload("t2", "c.png", []byte("c")))
	require.NoError(t, err)
	t3, err := f.gallery.Upload(t.Context(), bob, pngUpload("t3", "d.png", []byte("d")))
	require.NoError(t, err)

	all, err := f.gallery.ListAll(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []int64{t1.ID, t2.ID, t3.ID, old.ID}, ids(all))

	bobs, err := f.gallery.ListByUser(t.Context(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{t1.ID, t3.ID}, ids(bobs))
}

func TestDeleteByNonOwnerIsForbidden(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "alice@example.com")
	bob := f.user(t, "bob", "bob@example.com")

	pic, err := f.gallery.Upload(t.Context(), alice, pngUpload("cat", "cat.png", []byte("x")))
	require.NoError(t, err)

	err = f.gallery.Delete(t.Context(), bob.ID, pic.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.gallery.Detail(t.Context(), pic.ID)
	assert.NoError(t, err)
	obj, err := f.gallery.FetchImage(t.Context(), pic.ImagePath)
	require.NoError(t, err)
	obj.Body.Close()
}

func TestDeleteMissingIsNotFoundBeforeForbidden(t *testing.T) {
	f := newFixture(t)
	bob := f.user(t, "bob", "bob@example.com")

	err := f.gallery.Delete(t.Context(), bob.ID, 12345)
	assert.ErrorIs(t, err, ErrPictureNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func TestDeleteSurvivesStorageFailure(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "alice@example.com")

	pic, err := f.gallery.Upload(t.Context(), alice, pngUpload("cat", "cat.png", []byte("x")))
	require.NoError(t, err)

	f.store.deleteErr = errBoom
	require.NoError(t, f.gallery.Delete(t.Context(), alice.ID, pic.ID))

	_, err = f.gallery.Detail(t.Context(), pic.ID)
	assert.ErrorIs(t, err, ErrPictureNotFound)
	assert.Equal(t, 1, f.store.Len(), "blob is left for the sweep")
}

func TestFetchImageRoundTrip(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice", "alice@example.com")
	data := []byte("\x89PNG\r\n\x1a\nimage-data")

	in := pngUpload("cat", "cat.webp", data)
	in.ContentType = "image/webp"
	pic, err := f.gallery.Upload(t.Context(), alice, in)
	require.NoError(t, err)

	obj, err := f.gallery.FetchImage(t.Context(), pic.ImagePath)
	require.NoError(t, err)
	defer obj.Body.Close()

	got, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "image/webp", obj.ContentType)

	_, err = f.gallery.FetchImage(t.Context(), "missing.png")
	assert.ErrorIs(t, err, ErrImageNotFound)
	_, err = f.gallery.FetchImage(t.Context(), "")
	assert.ErrorIs(t, err, ErrImageNotFound)

	f.store.getErr = errBoom
	_, err = f.gallery.FetchImage(t.Context(), pic.ImagePath)
	assert.ErrorIs(t, err, ErrStorage)
}

// User A uploads cat.png, user B cannot delete it, user A can.
func TestCatPictureLifecycle(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "A", "a@example.com")
	b := f.user(t, "B", "b@example.com")

	pic, err := f.gallery.Upload(t.Context(), a, pngUpload("cat", "cat.png", []byte("meow")))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(pic.ImagePath, ".png"))

	assert.ErrorIs(t, f.gallery.Delete(t.Context(), b.ID, pic.ID), ErrForbidden)
	require.NoError(t, f.gallery.Delete(t.Context(), a.ID, pic.ID))

	_, err = f.gallery.Detail(t.Context(), pic.ID)
	assert.ErrorIs(t, err, ErrPictureNotFound)
	_, err = f.gallery.FetchImage(t.Context(), pic.ImagePath)
	assert.ErrorIs(t, err, ErrImageNotFound)

	assert.ErrorIs(t, f.gallery.Delete(t.Context(), a.ID, pic.ID), ErrPictureNotFound)
	assert.ErrorIs(t, f.gallery.Delete(t.Context(), b.ID, pic.ID), ErrPictureNotFound)
}

func TestImageKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	pattern := regexp.MustCompile(`^1700000000123-[0-9a-f]{12}`)

	tests := []struct {
		filename string
		suffix   string
	}{
		{"cat.png", ".png"},
		{"Photo.JPG", ".JPG"},
		{"archive.tar.gz", ".gz"},
		{"noext", ""},
		{"trailingdot.", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			key := ImageKey(now, tt.filename)
			assert.Regexp(t, pattern, key)
			assert.Equal(t, tt.suffix, strings.TrimPrefix(key, pattern.FindString(key)))
		})
	}

	assert.NotEqual(t, ImageKey(now, "a.png"), ImageKey(now, "a.png"))
}

func ids(pictures []*model.Picture) []int64 {
	out := make([]int64, 0, len(pictures))
	for _, p := range pictures {
		out = append(out, p.ID)
	}
	return out
}
