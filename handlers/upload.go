package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/services"
	"github.com/dustin/go-humanize"
)

// multipartOverhead, dosya dışındaki form alanları ve boundary'ler için pay.
const multipartOverhead = 1 << 20

// multipartMemory, ParseMultipartForm'un bellekte tuttuğu kısım; fazlası geçici dosyaya gider.
const multipartMemory = 8 << 20

// readUpload, multipart formdaki "file" alanını okur.
// Gövde maxFile + overhead ile sınırlanır; tür bazlı limit service'te kontrol edilir.
func readUpload(w http.ResponseWriter, r *http.Request, maxFile int64) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFile+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, &pkg.Localized{
				Key:    "upload.tooLarge",
				Params: map[string]string{"limit": humanize.IBytes(uint64(maxFile))},
				Err:    fmt.Errorf("%w: request body over %d bytes", pkg.ErrPayloadTooLarge, maxErr.Limit),
			}
		}
		return nil, nil, pkg.NewLocalized("upload.noFile", nil)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, pkg.NewLocalized("upload.noFile", nil)
	}
	return file, header, nil
}

// UploadHandler, medya yükleme ve silme endpoint'leri.
//
// Bu endpoint'ler {success,data} zarfını kullanmaz; cevap düz
// {success, path?, error?} şeklindedir.
type UploadHandler struct {
	media services.MediaService
}

// NewUploadHandler, constructor.
func NewUploadHandler(media services.MediaService) *UploadHandler {
	return &UploadHandler{media: media}
}

func (h *UploadHandler) uploadFailed(w http.ResponseWriter, r *http.Request, err error) {
	pkg.Raw(w, pkg.StatusFor(err), models.UploadResponse{Success: false, Error: errorMessage(r, err)})
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request, kind models.MediaKind) {
	file, header, err := readUpload(w, r, h.media.Limits().Max(kind))
	if err != nil {
		h.uploadFailed(w, r, err)
		return
	}
	defer file.Close()

	purpose := r.FormValue("purpose")
	if purpose == "" {
		purpose = "project"
	}

	media, err := h.media.Upload(r.Context(), kind, purpose, file, header)
	if err != nil {
		h.uploadFailed(w, r, err)
		return
	}
	pkg.Raw(w, http.StatusOK, models.UploadResponse{Success: true, Path: media.Path})
}

// UploadImage godoc
// POST /api/upload-image
// Content-Type: multipart/form-data; "file" ve opsiyonel "purpose" alanları.
// Response: {"success": true, "path": "/uploads/project-ab12.png"}
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, models.MediaKindImage)
}

// UploadVideo godoc
// POST /api/upload-video
func (h *UploadHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, models.MediaKindVideo)
}

// DeleteImage godoc
// DELETE /api/delete-image
// Body: {"imagePath": "/uploads/..."}. Sadece /uploads/ altındaki dosyalar silinir.
func (h *UploadHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteMediaRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImagePath == "" {
		h.uploadFailed(w, r, pkg.NewLocalized("upload.invalidPath", nil))
		return
	}

	if err := h.media.Delete(r.Context(), req.ImagePath); err != nil {
		h.uploadFailed(w, r, err)
		return
	}
	pkg.Raw(w, http.StatusOK, models.UploadResponse{Success: true, Path: req.ImagePath})
}
