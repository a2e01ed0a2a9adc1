package asset

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/logger"
	"portfolio/internal/pkg/apperr"
)

var fixedTime = time.Date(2026, 10, 19, 12, 30, 45, 0, time.UTC)

func setupTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	root := t.TempDir()
	m := NewManager(NewLocalBackend(root, "/uploads"), logger.Discard())
	m.now = func() time.Time { return fixedTime }
	return m, root
}

func TestGenerateName(t *testing.T) {
	cases := []struct {
		original string
		want     string
	}{
		{"photo.png", "photo_20261019123045_abcd1234.png"},
		{"My Photo.JPG", "My_Photo_20261019123045_abcd1234.jpg"},
		{"../../etc/passwd", "passwd_20261019123045_abcd1234"},
		{`..\..\evil.exe`, "evil_20261019123045_abcd1234.exe"},
		{".png", "file_20261019123045_abcd1234.png"},
		{"", "file_20261019123045_abcd1234"},
		{"archive.tar.gz", "archive_tar_20261019123045_abcd1234.gz"},
		{"x.p$h%p", "x_20261019123045_abcd1234.php"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GenerateName(tc.original, fixedTime, "abcd1234"), tc.original)
	}
}

func TestGenerateNameTruncatesLongBase(t *testing.T) {
	name := GenerateName(strings.Repeat("a", 100)+".pdf", fixedTime, "abcd1234")
	assert.Equal(t, strings.Repeat("a", maxBaseLen)+"_20261019123045_abcd1234.pdf", name)
}

func TestPinnedName(t *testing.T) {
	assert.Equal(t, "resume.pdf", PinnedName("resume", "resume.pdf"))
	assert.Equal(t, "resume.docx", PinnedName("resume", "cv2.DOCX"))
	assert.Equal(t, "resume", PinnedName("resume", "noext"))
}

func TestStoreWritesFile(t *testing.T) {
	m, root := setupTestManager(t)

	name, err := m.Store(context.Background(), strings.NewReader("png-bytes"), "photo.png", SubfolderProjects)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "photo_20261019123045_"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	data, err := os.ReadFile(filepath.Join(root, SubfolderProjects, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestStoreProducesDistinctNamesWithinOneSecond(t *testing.T) {
	m, _ := setupTestManager(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		name, err := m.Store(ctx, strings.NewReader("x"), "same.png", SubfolderServices)
		require.NoError(t, err)
		require.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}

func TestStoreLargeBodyIsWrittenFully(t *testing.T) {
	m, root := setupTestManager(t)
	body := strings.Repeat("0123456789", 2000)

	name, err := m.Store(context.Background(), strings.NewReader(body), "big.bin", SubfolderProfile)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, SubfolderProfile, name))
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestStoreFixedNameOverwrites(t *testing.T) {
	m, root := setupTestManager(t)
	ctx := context.Background()

	_, err := m.StoreFixedName(ctx, strings.NewReader("v1"), SubfolderCV, "resume.pdf")
	require.NoError(t, err)
	name, err := m.StoreFixedName(ctx, strings.NewReader("v2"), SubfolderCV, "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", name)

	data, err := os.ReadFile(filepath.Join(root, SubfolderCV, "resume.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestStoreFixedNameRejectsPaths(t *testing.T) {
	m, _ := setupTestManager(t)

	for _, bad := range []string{"", ".", "..", "../resume.pdf", `a\b.pdf`} {
		_, err := m.StoreFixedName(context.Background(), strings.NewReader("x"), SubfolderCV, bad)
		require.Error(t, err, bad)
		assert.True(t, apperr.IsCode(err, apperr.CodeIOFailure), bad)
		assert.ErrorIs(t, err, ErrInvalidName)
	}
}

func TestStoreRejectsUnknownSubfolder(t *testing.T) {
	m, _ := setupTestManager(t)

	_, err := m.Store(context.Background(), strings.NewReader("x"), "a.png", "../outside")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeIOFailure))
}

func TestStoreReportsDirectoryFailure(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("file, not dir"), 0o644))

	m := NewManager(NewLocalBackend(blocker, "/uploads"), logger.Discard())
	_, err := m.Store(context.Background(), strings.NewReader("x"), "a.png", SubfolderProjects)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeIOFailure))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestStoreReportsReadFailureWithoutLeavingFiles(t *testing.T) {
	m, root := setupTestManager(t)

	_, err := m.Store(context.Background(), io.MultiReader(strings.NewReader(strings.Repeat("x", sniffLen+10)), failingReader{}), "a.png", SubfolderProjects)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeIOFailure))

	entries, err := os.ReadDir(filepath.Join(root, SubfolderProjects))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemoveIsIdempotent(t *testing.T) {
	m, root := setupTestManager(t)
	ctx := context.Background()

	name, err := m.Store(ctx, strings.NewReader("x"), "photo.png", SubfolderProjects)
	require.NoError(t, err)

	require.NoError(t, m.Remove(ctx, name, SubfolderProjects))
	_, err = os.Stat(filepath.Join(root, SubfolderProjects, name))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, m.Remove(ctx, name, SubfolderProjects))
	require.NoError(t, m.Remove(ctx, "never-existed.png", SubfolderServices))
	require.NoError(t, m.Remove(ctx, "", SubfolderServices))
}

func TestRemoveRejectsTraversal(t *testing.T) {
	m, root := setupTestManager(t)
	outside := filepath.Join(root, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	err := m.Remove(context.Background(), "../keep.txt", SubfolderProjects)
	require.Error(t, err)
	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr)
}

func TestListSkipsTempFiles(t *testing.T) {
	m, root := setupTestManager(t)
	ctx := context.Background()

	names, err := m.List(ctx, SubfolderServices)
	require.NoError(t, err)
	assert.Empty(t, names)

	name, err := m.Store(ctx, strings.NewReader("x"), "s.png", SubfolderServices)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, SubfolderServices, tempPrefix+"123"), []byte("partial"), 0o644))

	names, err = m.List(ctx, SubfolderServices)
	require.NoError(t, err)
	assert.Equal(t, []string{name}, names)
}

func TestURL(t *testing.T) {
	m, _ := setupTestManager(t)
	assert.Equal(t, "/uploads/cv/resume.pdf", m.URL(SubfolderCV, "resume.pdf"))
	assert.Equal(t, "", m.URL(SubfolderCV, ""))
}
