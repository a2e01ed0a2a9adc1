package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"portfolio/internal/pkg/apperr"
)

// Subfolders of the asset root, one per kind of uploaded file.
const (
	SubfolderProfile  = "profile"
	SubfolderCV       = "cv"
	SubfolderProjects = "projects"
	SubfolderServices = "services"
)

var Subfolders = []string{SubfolderProfile, SubfolderCV, SubfolderProjects, SubfolderServices}

const (
	maxBaseLen = 40
	maxExtLen  = 10
	sniffLen   = 3072
)

var ErrInvalidName = errors.New("invalid asset file name")

// Manager owns every file under the asset root. Nothing else in the
// service touches the storage backend.
type Manager struct {
	backend Backend
	log     *logrus.Logger
	now     func() time.Time
	suffix  func() string
}

func NewManager(backend Backend, log *logrus.Logger) *Manager {
	return &Manager{
		backend: backend,
		log:     log,
		now:     time.Now,
		suffix:  func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] },
	}
}

// Store writes r under subfolder with a name derived from originalName,
// a UTC timestamp and a random suffix, and returns that name.
func (m *Manager) Store(ctx context.Context, r io.Reader, originalName, subfolder string) (string, error) {
	const op = "asset.Store"

	if err := checkSubfolder(op, subfolder); err != nil {
		return "", err
	}
	name := GenerateName(originalName, m.now(), m.suffix())
	if err := m.put(ctx, op, r, subfolder, name); err != nil {
		return "", err
	}
	return name, nil
}

// StoreFixedName writes r under subfolder using exactly fixedName,
// replacing any file already stored under that name.
func (m *Manager) StoreFixedName(ctx context.Context, r io.Reader, subfolder, fixedName string) (string, error) {
	const op = "asset.StoreFixedName"

	if err := checkSubfolder(op, subfolder); err != nil {
		return "", err
	}
	if !validName(fixedName) {
		return "", apperr.E(apperr.CodeIOFailure, op, fmt.Sprintf("%q", fixedName), ErrInvalidName)
	}
	if err := m.put(ctx, op, r, subfolder, fixedName); err != nil {
		return "", err
	}
	return fixedName, nil
}

// Remove deletes name from subfolder. A missing file is not an error.
func (m *Manager) Remove(ctx context.Context, name, subfolder string) error {
	const op = "asset.Remove"

	if name == "" {
		return nil
	}
	if err := checkSubfolder(op, subfolder); err != nil {
		return err
	}
	if !validName(name) {
		return apperr.E(apperr.CodeIOFailure, op, fmt.Sprintf("%q", name), ErrInvalidName)
	}

	if err := m.backend.Delete(ctx, key(subfolder, name)); err != nil {
		return apperr.E(apperr.CodeIOFailure, op, "failed to delete file", err)
	}
	m.log.WithFields(logrus.Fields{"subfolder": subfolder, "name": name}).Debug("asset removed")
	return nil
}

// List returns the names stored under subfolder.
func (m *Manager) List(ctx context.Context, subfolder string) ([]string, error) {
	const op = "asset.List"

	if err := checkSubfolder(op, subfolder); err != nil {
		return nil, err
	}
	names, err := m.backend.List(ctx, subfolder)
	if err != nil {
		return nil, apperr.E(apperr.CodeIOFailure, op, "failed to list files", err)
	}
	return names, nil
}

// URL is the public address of name, or "" when there is no asset.
func (m *Manager) URL(subfolder, name string) string {
	if name == "" {
		return ""
	}
	return m.backend.URL(key(subfolder, name))
}

func (m *Manager) put(ctx context.Context, op string, r io.Reader, subfolder, name string) error {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return apperr.E(apperr.CodeIOFailure, op, "failed to read upload", err)
	}
	head = head[:n]
	contentType := mimetype.Detect(head).String()

	body := io.MultiReader(bytes.NewReader(head), r)
	if err := m.backend.Put(ctx, key(subfolder, name), body, contentType); err != nil {
		return apperr.E(apperr.CodeIOFailure, op, "failed to store file", err)
	}

	m.log.WithFields(logrus.Fields{
		"subfolder":    subfolder,
		"name":         name,
		"content_type": contentType,
	}).Debug("asset stored")
	return nil
}

// GenerateName builds "<base>_<yyyymmddHHMMSS>_<suffix><.ext>" from an
// uploaded file name. Path components and unsafe characters are dropped.
func GenerateName(originalName string, at time.Time, suffix string) string {
	base, ext := splitName(originalName)
	return fmt.Sprintf("%s_%s_%s%s", base, at.UTC().Format("20060102150405"), suffix, ext)
}

// PinnedName keeps stem and takes only the extension from originalName,
// ex: PinnedName("resume", "My CV.PDF") == "resume.pdf".
func PinnedName(stem, originalName string) string {
	_, ext := splitName(originalName)
	return stem + ext
}

func splitName(originalName string) (base, ext string) {
	name := originalName
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	ext = sanitizeExt(path.Ext(name))
	base = sanitizeBase(strings.TrimSuffix(name, path.Ext(name)))
	return base, ext
}

func sanitizeBase(name string) string {
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
	if len(name) > maxBaseLen {
		name = name[:maxBaseLen]
	}
	if strings.Trim(name, "_") == "" {
		return "file"
	}
	return name
}

func sanitizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	ext = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, ext)
	if ext == "" {
		return ""
	}
	if len(ext) > maxExtLen {
		ext = ext[:maxExtLen]
	}
	return "." + ext
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, "/\\\x00") &&
		!strings.HasPrefix(name, tempPrefix)
}

func checkSubfolder(op, subfolder string) error {
	for _, s := range Subfolders {
		if s == subfolder {
			return nil
		}
	}
	return apperr.E(apperr.CodeIOFailure, op, fmt.Sprintf("unknown subfolder %q", subfolder), nil)
}

func key(subfolder, name string) string {
	return subfolder + "/" + name
}
