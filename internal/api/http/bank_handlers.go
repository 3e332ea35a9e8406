package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-portal/internal/eventlog"
	"github.com/mind-engage/mindengage-portal/internal/qti"
	"github.com/mind-engage/mindengage-portal/internal/quizbank"
	"github.com/mind-engage/mindengage-portal/internal/storage"
)

const (
	maxBankJSON   = 1 << 20
	maxQTIPackage = 16 << 20
)

// BankStore is the writable question bank registry.
type BankStore interface {
	quizbank.Registry
	Put(ctx context.Context, b quizbank.Bank) error
	Append(ctx context.Context, courseID string, tpls ...quizbank.QuestionTemplate) (quizbank.Bank, error)
}

type EventAppender interface {
	Append(ctx context.Context, typ, key string, data any) error
}

// BankDeps carries everything a bank change touches: the registry, the
// content cache, the upload archive and the event log.
type BankDeps struct {
	Store   BankStore
	Catalog interface{ Invalidate(courseID string) }
	Blobs   storage.BlobStore
	Events  EventAppender
	Now     func() time.Time
}

func (d BankDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// archive keeps the raw upload; the returned key goes into the event.
func (d BankDeps) archive(ctx context.Context, courseID, ext string, raw []byte) (string, error) {
	if d.Blobs == nil {
		return "", nil
	}
	return d.Blobs.Put(ctx, storage.BankUploadKey(courseID, ext, d.now()), bytes.NewReader(raw))
}

func (d BankDeps) changed(ctx context.Context, typ, courseID string, data map[string]any) {
	if d.Catalog != nil {
		d.Catalog.Invalidate(courseID)
	}
	if d.Events != nil {
		if err := d.Events.Append(ctx, typ, courseID, data); err != nil {
			// bank is stored already
			log.Printf("event %s %s: %v", typ, courseID, err)
		}
	}
}

// GET /banks/{courseID}
// Returns the bank the registry serves for the course: stored, builtin or
// the fallback.
func GetBankHandler(reg quizbank.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, quizbank.BankFromRegistry(reg, chi.URLParam(r, "courseID")))
	}
}

// PUT /banks/{courseID}  (JSON bank, replaces the course's templates)
func PutBankHandler(d BankDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBankJSON))
		if err != nil {
			http.Error(w, "body too large", http.StatusRequestEntityTooLarge)
			return
		}
		b, err := quizbank.DecodeBank(bytes.NewReader(raw))
		if err != nil {
			respondError(w, r, err)
			return
		}
		if b.CourseID != courseID {
			http.Error(w, "course_id does not match path", http.StatusBadRequest)
			return
		}
		key, err := d.archive(r.Context(), courseID, "json", raw)
		if err != nil {
			respondError(w, r, err)
			return
		}
		if err := d.Store.Put(r.Context(), b); err != nil {
			respondError(w, r, err)
			return
		}
		d.changed(r.Context(), eventlog.TypeBankUpdated, courseID, map[string]any{
			"templates": len(b.Templates),
			"archive":   key,
		})
		respondJSON(w, http.StatusOK, b)
	}
}

// POST /banks/{courseID}/qti
// Body is a single assessmentItem XML document or a QTI content package
// (zip), either raw or as multipart field "file". Usable single-choice items
// are appended to the course's bank.
func ImportQTIHandler(d BankDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")
		raw, err := readUpload(w, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var (
			tpls    []quizbank.QuestionTemplate
			skipped []qti.Skipped
			ext     = "xml"
		)
		if qti.IsPackage(raw) {
			ext = "zip"
			items, skippedItems, err := qti.ParsePackage(bytes.NewReader(raw), int64(len(raw)))
			if err != nil {
				respondError(w, r, err)
				return
			}
			var bad []qti.Skipped
			tpls, bad = qti.Templates(items)
			skipped = append(skippedItems, bad...)
		} else {
			it, err := qti.ParseItem(bytes.NewReader(raw))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			t, err := it.Template()
			if err != nil {
				respondError(w, r, err)
				return
			}
			tpls = append(tpls, t)
		}
		if len(tpls) == 0 {
			respondJSON(w, http.StatusBadRequest, map[string]any{"error": "no usable items", "skipped": skipped})
			return
		}

		key, err := d.archive(r.Context(), courseID, ext, raw)
		if err != nil {
			respondError(w, r, err)
			return
		}
		b, err := d.Store.Append(r.Context(), courseID, tpls...)
		if err != nil {
			respondError(w, r, err)
			return
		}
		d.changed(r.Context(), eventlog.TypeBankImported, courseID, map[string]any{
			"added":   len(tpls),
			"skipped": len(skipped),
			"archive": key,
		})
		if skipped == nil {
			skipped = []qti.Skipped{}
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"course_id": courseID,
			"added":     len(tpls),
			"total":     len(b.Templates),
			"skipped":   skipped,
			"archive":   key,
		})
	}
}

// GET /archive/*  returns an archived bank upload by its key
func GetArchiveHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(r.Context(), key)
		switch {
		case errors.Is(err, storage.ErrBadKey):
			http.Error(w, "bad key", http.StatusBadRequest)
			return
		case errors.Is(err, fs.ErrNotExist):
			http.Error(w, "not found", http.StatusNotFound)
			return
		case err != nil:
			respondError(w, r, err)
			return
		}
		defer rc.Close()
		ct := "application/octet-stream"
		switch path.Ext(key) {
		case ".json":
			ct = "application/json"
		case ".xml":
			ct = "application/xml"
		case ".zip":
			ct = "application/zip"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	}
}

func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, maxQTIPackage)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = body
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, errFileRequired
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(body)
}
