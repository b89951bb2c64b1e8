package api

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type documentInfo struct {
	Name      string  `json:"name"`
	CharCount int     `json:"char_count"`
	SizeKB    float64 `json:"size_kb"`
}

func (s *Server) emptyHint() string {
	return fmt.Sprintf("add PDF, DOCX or TXT files to %s and reload", s.cfg.DocumentsDir)
}

// handleListDocuments lists the knowledge base, sorted by name.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.Get()
	if err != nil {
		jsonError(w, "failed to load documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	records := docs.Records()
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })

	list := make([]documentInfo, 0, len(records))
	for _, rec := range records {
		list = append(list, documentInfo{Name: rec.Name, CharCount: rec.CharCount, SizeKB: rec.SizeKB})
	}

	resp := map[string]any{
		"documents": list,
		"totals": map[string]any{
			"documents":   docs.Len(),
			"chars":       docs.TotalChars(),
			"chars_human": humanize.Comma(int64(docs.TotalChars())),
			"kb":          docs.TotalKB(),
		},
	}
	if docs.Len() == 0 {
		resp["hint"] = s.emptyHint()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReloadDocuments drops the cached knowledge base and rebuilds it.
func (s *Server) handleReloadDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.Reload()
	if err != nil {
		jsonError(w, "failed to reload documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs.Len(),
		"chars":     docs.TotalChars(),
	})
}

func (s *Server) uploadTooLarge() string {
	return fmt.Sprintf("file exceeds max size (%s)", humanize.IBytes(uint64(s.cfg.MaxUploadBytes)))
}

// handleUploadDocument stores one file in the documents folder and
// invalidates the knowledge base.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, s.uploadTooLarge(), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(s.cfg.Extensions, ext) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", ext), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, s.uploadTooLarge(), http.StatusRequestEntityTooLarge)
		return
	}

	mtype := mimetype.Detect(data)
	if !contentMatches(ext, mtype) {
		jsonError(w, fmt.Sprintf("content type %s does not match extension %s", mtype.String(), ext), http.StatusUnsupportedMediaType)
		return
	}

	if err := os.MkdirAll(s.cfg.DocumentsDir, 0o755); err != nil {
		jsonError(w, "documents folder unavailable", http.StatusInternalServerError)
		return
	}
	path := filepath.Join(s.cfg.DocumentsDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Error("store upload", zap.String("document", filename), zap.Error(err))
		jsonError(w, "failed to store file", http.StatusInternalServerError)
		return
	}
	s.docs.Invalidate()

	s.log.Info("document uploaded",
		zap.String("document", filename),
		zap.String("size", humanize.IBytes(uint64(len(data)))),
		zap.String("mime", mtype.String()),
	)
	writeJSON(w, http.StatusCreated, map[string]any{
		"name":  filename,
		"bytes": len(data),
		"mime":  mtype.String(),
	})
}

// handleDeleteDocument removes one file from the documents folder.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validDocumentName(name) {
		jsonError(w, "invalid document name", http.StatusBadRequest)
		return
	}

	err := os.Remove(filepath.Join(s.cfg.DocumentsDir, name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		jsonError(w, "document not found", http.StatusNotFound)
		return
	case err != nil:
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.docs.Invalidate()

	writeJSON(w, http.StatusOK, map[string]any{"deleted": name})
}

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// contentMatches checks sniffed content against the claimed extension.
func contentMatches(ext string, m *mimetype.MIME) bool {
	switch ext {
	case ".pdf":
		return m.Is("application/pdf")
	case ".docx":
		return m.Is(docxMIME) || m.Is("application/zip")
	default:
		for p := m; p != nil; p = p.Parent() {
			if strings.HasPrefix(p.String(), "text/") {
				return true
			}
		}
		return false
	}
}
