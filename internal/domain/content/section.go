package content

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portfolio/internal/domain/asset"
	"portfolio/internal/pkg/apperr"
)

// Upload is one file part submitted with an edit.
type Upload struct {
	Name string // original client file name
	Size int64
	Open func() (io.ReadCloser, error)
}

// Deps are shared by the sections of every kind.
type Deps struct {
	DB             *gorm.DB
	Assets         *asset.Manager
	Log            *logrus.Logger
	MaxUploadBytes int64
	// OnChange runs after every committed create, update or delete.
	OnChange func(ctx context.Context)
}

// Section runs the edit and delete protocol of one kind: records go
// through the Store, their files through the asset Manager.
type Section[T any, P ptrRecord[T]] struct {
	store          *Store[T, P]
	assets         *asset.Manager
	log            *logrus.Logger
	maxUploadBytes int64
	onChange       func(ctx context.Context)
}

func NewSection[T any, P ptrRecord[T]](kind Kind, d Deps) *Section[T, P] {
	return &Section[T, P]{
		store:          NewStore[T, P](d.DB, kind),
		assets:         d.Assets,
		log:            d.Log,
		maxUploadBytes: d.MaxUploadBytes,
		onChange:       d.OnChange,
	}
}

func (s *Section[T, P]) Kind() Kind { return s.store.Kind() }

// Current returns the singleton row, or an empty record when none exists.
func (s *Section[T, P]) Current(ctx context.Context) (P, error) {
	rec, err := s.store.First(ctx)
	if errors.Is(err, ErrNotFound) {
		return P(new(T)), nil
	}
	return rec, err
}

// Find returns the singleton row or a NOT_FOUND error.
func (s *Section[T, P]) Find(ctx context.Context) (P, error) {
	return s.store.First(ctx)
}

func (s *Section[T, P]) Get(ctx context.Context, id uint) (P, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Section[T, P]) List(ctx context.Context) ([]T, error) {
	return s.store.List(ctx)
}

type storedFile struct {
	name      string
	subfolder string
}

// Save validates rec, stores any uploads, commits the record and then
// removes the files it no longer references. File fields without an
// upload keep the value of the stored record, whatever rec carried.
//
// When only the removal of a superseded file fails, the saved record is
// returned together with an IO_FAILURE error.
func (s *Section[T, P]) Save(ctx context.Context, rec P, uploads map[string]Upload) (P, error) {
	const op = "content.Save"

	fields := s.store.Validate(rec)
	for _, slot := range rec.Files() {
		up, ok := uploads[slot.Part]
		if ok && s.maxUploadBytes > 0 && up.Size > s.maxUploadBytes {
			if fields == nil {
				fields = map[string]string{}
			}
			fields[slot.Part] = fmt.Sprintf("must be at most %d bytes", s.maxUploadBytes)
		}
	}
	if fields != nil {
		return nil, apperr.Validation(op, fields)
	}

	prior, err := s.prior(ctx, rec)
	if err != nil {
		return nil, err
	}

	stale, err := s.mergeFiles(ctx, rec, prior, uploads)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.Upsert(ctx, rec)
	if err != nil {
		// Files stored above stay on disk until an orphan sweep.
		s.log.WithError(err).WithField("kind", s.Kind().Name).Warn("record save failed after storing uploads")
		return nil, err
	}
	s.changed(ctx)

	if err := s.removeAll(ctx, stale); err != nil {
		return saved, err
	}
	return saved, nil
}

// Delete removes the record, then the files it referenced.
func (s *Section[T, P]) Delete(ctx context.Context, id uint) error {
	rec, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx)

	var files []storedFile
	for _, slot := range rec.Files() {
		if *slot.Ref != "" {
			files = append(files, storedFile{name: *slot.Ref, subfolder: slot.Subfolder})
		}
	}
	return s.removeAll(ctx, files)
}

// References returns every stored file name referenced by this kind,
// keyed by subfolder.
func (s *Section[T, P]) References(ctx context.Context, into map[string]map[string]bool) error {
	recs, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	for i := range recs {
		for _, slot := range P(&recs[i]).Files() {
			if *slot.Ref == "" {
				continue
			}
			if into[slot.Subfolder] == nil {
				into[slot.Subfolder] = map[string]bool{}
			}
			into[slot.Subfolder][*slot.Ref] = true
		}
	}
	return nil
}

// prior loads the stored state rec is about to replace, or nil for a new
// record. Singleton edits always target the existing row.
func (s *Section[T, P]) prior(ctx context.Context, rec P) (P, error) {
	if s.Kind().Singleton {
		existing, err := s.store.First(ctx)
		if errors.Is(err, ErrNotFound) {
			rec.SetID(0)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		rec.SetID(existing.GetID())
		return existing, nil
	}

	if rec.GetID() == 0 {
		return nil, nil
	}
	return s.store.GetByID(ctx, rec.GetID())
}

// mergeFiles fills every file field of rec: a stored upload when one was
// submitted, the prior value otherwise. It returns the prior files that
// the new values supersede.
func (s *Section[T, P]) mergeFiles(ctx context.Context, rec, prior P, uploads map[string]Upload) ([]storedFile, error) {
	var priorSlots []FileSlot
	if prior != nil {
		priorSlots = prior.Files()
	}

	var stale, written []storedFile
	for i, slot := range rec.Files() {
		old := ""
		if priorSlots != nil {
			old = *priorSlots[i].Ref
		}

		up, ok := uploads[slot.Part]
		if !ok {
			*slot.Ref = old
			continue
		}

		name, err := s.storeUpload(ctx, slot, up)
		if err != nil {
			_ = s.removeAll(ctx, written)
			return nil, err
		}
		*slot.Ref = name

		if name != old {
			written = append(written, storedFile{name: name, subfolder: slot.Subfolder})
			if old != "" {
				stale = append(stale, storedFile{name: old, subfolder: slot.Subfolder})
			}
		}
	}
	return stale, nil
}

func (s *Section[T, P]) storeUpload(ctx context.Context, slot FileSlot, up Upload) (string, error) {
	f, err := up.Open()
	if err != nil {
		return "", apperr.E(apperr.CodeIOFailure, "content.storeUpload", "failed to open upload", err)
	}
	defer f.Close()

	if slot.PinnedStem != "" {
		return s.assets.StoreFixedName(ctx, f, slot.Subfolder, asset.PinnedName(slot.PinnedStem, up.Name))
	}
	return s.assets.Store(ctx, f, up.Name, slot.Subfolder)
}

// removeAll attempts every removal and returns the first failure.
func (s *Section[T, P]) removeAll(ctx context.Context, files []storedFile) error {
	var first error
	for _, f := range files {
		if err := s.assets.Remove(ctx, f.name, f.subfolder); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"kind":      s.Kind().Name,
				"subfolder": f.subfolder,
				"name":      f.name,
			}).Warn("failed to remove file")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (s *Section[T, P]) changed(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}
