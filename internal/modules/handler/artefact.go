package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/curiomuse/artefact-catalog/internal/infra/blob"
	"github.com/curiomuse/artefact-catalog/internal/modules/model"
	"github.com/curiomuse/artefact-catalog/internal/modules/serializer"
	"github.com/curiomuse/artefact-catalog/internal/modules/service"
	"github.com/curiomuse/artefact-catalog/internal/pkg/utils/form"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlobGateway is the storage surface the handlers drive.
type BlobGateway interface {
	UploadFormFile(ctx context.Context, folder string, fh *multipart.FileHeader) (*blob.UploadedMeta, error)
	DownloadURL(ctx context.Context, fileID string) (string, error)
	PreviewURL(ctx context.Context, fileID string, width, height int) (string, error)
	Replace(ctx context.Context, fileID string, r io.Reader, contentType string) (string, error)
	GetMetadata(ctx context.Context, fileID string) (*blob.FileInfo, error)
	List(ctx context.Context, prefix string) ([]blob.FileInfo, error)
}

type ArtefactHandler struct {
	svc  service.ArtefactService
	blob BlobGateway
}

func NewArtefactHandler(svc service.ArtefactService, b BlobGateway) *ArtefactHandler {
	return &ArtefactHandler{svc: svc, blob: b}
}

// assetPart describes one optional binary field of the upload form. Parts are
// processed in this fixed order; a failure aborts the request without removing
// assets already uploaded for it.
type assetPart struct {
	field  string
	folder string
	assign func(a *model.Artefact, fileID, url string)
}

var assetParts = []assetPart{
	{"model3d", "models", func(a *model.Artefact, fileID, url string) {
		a.Model3DFileID, a.Model3DURL = fileID, url
	}},
	{"video", "videos", func(a *model.Artefact, fileID, url string) {
		a.VideoFileID, a.VideoURL = fileID, url
	}},
	{"image", "images", func(a *model.Artefact, fileID, url string) {
		a.ImageFileID, a.ImageURL = fileID, url
	}},
}

// UploadArtefact godoc
//
//	@Summary		Upload an artefact
//	@Description	Upload up to three assets (3D model, video, image) and create one artefact record referencing them
//	@Tags			artefact
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			model3d		formData	file	false	"3D model file"
//	@Param			video		formData	file	false	"Video file"
//	@Param			image		formData	file	false	"Image file"
//	@Param			title		formData	string	false	"Title"
//	@Param			description	formData	string	false	"Description"
//	@Param			category	formData	string	false	"Category"
//	@Param			tags		formData	string	false	"Comma-separated tags"
//	@Param			status		formData	string	false	"draft|published|archived (default draft)"
//	@Param			isPublic	formData	string	false	"Literal \"true\" for public"
//	@Success		200	{object}	serializer.IngestResponse
//	@Failure		500	{object}	serializer.IngestResponse
//	@Router			/upload-artefact [post]
func (h *ArtefactHandler) UploadArtefact(c *gin.Context) {
	ctx := c.Request.Context()

	in := &model.Artefact{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Tags:        form.SplitTags(c.PostForm("tags")),
		Status:      model.ArtefactStatus(form.StatusOrDefault(c.PostForm("status"))),
		IsPublic:    form.IsTrue(c.PostForm("isPublic")),
	}

	for _, part := range assetParts {
		fh, err := c.FormFile(part.field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, serializer.IngestErr(err))
			return
		}
		if fh.Size == 0 {
			continue
		}

		meta, err := h.blob.UploadFormFile(ctx, part.folder, fh)
		if err != nil {
			c.JSON(http.StatusInternalServerError, serializer.IngestErr(err))
			return
		}
		url, err := h.blob.DownloadURL(ctx, meta.Key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, serializer.IngestErr(err))
			return
		}
		part.assign(in, meta.Key, url)
	}

	id, err := h.svc.Create(ctx, in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.IngestErr(err))
		return
	}

	c.JSON(http.StatusOK, serializer.IngestOK(id.String()))
}

// GetArtefact godoc
//
//	@Summary		Get artefact
//	@Description	Fetch one artefact by id
//	@Tags			artefact
//	@Produce		json
//	@Param			artefact_id	path	string	true	"Artefact ID"	Format(uuid)
//	@Success		200	{object}	serializer.Response{data=model.Artefact}
//	@Router			/artefacts/{artefact_id} [get]
func (h *ArtefactHandler) GetArtefact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("artefact_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	artefact, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}
	if artefact == nil {
		c.JSON(http.StatusNotFound, serializer.NotFound("artefact not found"))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: artefact})
}

type ListArtefactsReq struct {
	Status   string `form:"status"`
	IsPublic string `form:"is_public"`
	Category string `form:"category"`
	Limit    int    `form:"limit"`
}

// ListArtefacts godoc
//
//	@Summary		List artefacts
//	@Description	List artefacts, optionally filtered by status, visibility and category
//	@Tags			artefact
//	@Produce		json
//	@Param			status		query	string	false	"draft|published|archived"
//	@Param			is_public	query	boolean	false	"Visibility filter"
//	@Param			category	query	string	false	"Category filter"
//	@Param			limit		query	int		false	"Maximum number of results"
//	@Success		200	{object}	serializer.Response{data=[]model.Artefact}
//	@Router			/artefacts [get]
func (h *ArtefactHandler) ListArtefacts(c *gin.Context) {
	req := ListArtefactsReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	filters := service.ArtefactFilters{Limit: req.Limit}
	if req.Status != "" {
		if !model.ValidStatus(req.Status) {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", fmt.Errorf("invalid status %q", req.Status)))
			return
		}
		status := model.ArtefactStatus(req.Status)
		filters.Status = &status
	}
	if req.IsPublic != "" {
		public, err := strconv.ParseBool(req.IsPublic)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
			return
		}
		filters.IsPublic = &public
	}
	if req.Category != "" {
		filters.Category = &req.Category
	}

	artefacts, err := h.svc.GetFiltered(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: artefacts})
}

// SearchArtefacts godoc
//
//	@Summary		Search artefacts
//	@Description	Case-insensitive substring search over title and description
//	@Tags			artefact
//	@Produce		json
//	@Param			q	query	string	true	"Search term"
//	@Success		200	{object}	serializer.Response{data=[]model.Artefact}
//	@Router			/artefacts/search [get]
func (h *ArtefactHandler) SearchArtefacts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("search term is required", nil))
		return
	}

	artefacts, err := h.svc.Search(c.Request.Context(), term)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: artefacts})
}

// UpdateArtefact godoc
//
//	@Summary		Update artefact
//	@Description	Merge a partial metadata payload into an existing artefact
//	@Tags			artefact
//	@Accept			json
//	@Produce		json
//	@Param			artefact_id	path	string			true	"Artefact ID"	Format(uuid)
//	@Param			payload		body	map[string]any	true	"Partial artefact fields"
//	@Success		200	{object}	serializer.Response{}
//	@Router			/artefacts/{artefact_id} [patch]
func (h *ArtefactHandler) UpdateArtefact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("artefact_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	if len(partial) == 0 {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("empty update payload", nil))
		return
	}
	if status, ok := partial["status"].(string); ok && !model.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", fmt.Errorf("invalid status %q", status)))
		return
	}

	if err := h.svc.Update(c.Request.Context(), id, partial); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, serializer.NotFound("artefact not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

// DeleteArtefact godoc
//
//	@Summary		Delete artefact
//	@Description	Delete the artefact record. Stored assets referenced by it are kept.
//	@Tags			artefact
//	@Produce		json
//	@Param			artefact_id	path	string	true	"Artefact ID"	Format(uuid)
//	@Success		200	{object}	serializer.Response{}
//	@Router			/artefacts/{artefact_id} [delete]
func (h *ArtefactHandler) DeleteArtefact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("artefact_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

type ReplaceAssetResp struct {
	FileID string `json:"file_id"`
	URL    string `json:"url"`
}

// ReplaceAsset godoc
//
//	@Summary		Replace one asset
//	@Description	Replace the stored file behind one asset of an artefact, keeping its file id, and refresh the recorded URL
//	@Tags			artefact
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			artefact_id	path		string	true	"Artefact ID"	Format(uuid)
//	@Param			kind		path		string	true	"model3d|video|image"
//	@Param			file		formData	file	true	"Replacement file"
//	@Success		200	{object}	serializer.Response{data=handler.ReplaceAssetResp}
//	@Router			/artefacts/{artefact_id}/asset/{kind} [put]
func (h *ArtefactHandler) ReplaceAsset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("artefact_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	kind := c.Param("kind")
	urlField, ok := assetURLFields[kind]
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", fmt.Errorf("unknown asset kind %q", kind)))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("file is required", err))
		return
	}

	artefact, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}
	if artefact == nil {
		c.JSON(http.StatusNotFound, serializer.NotFound("artefact not found"))
		return
	}

	fileID := assetFileID(artefact, kind)
	if fileID == "" {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", fmt.Errorf("artefact has no %s asset", kind)))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.Err(serializer.CodeErr, "open replacement file", err))
		return
	}
	defer f.Close()

	if _, err := h.blob.Replace(c.Request.Context(), fileID, f, fh.Header.Get("Content-Type")); err != nil {
		c.JSON(http.StatusInternalServerError, serializer.Err(serializer.CodeErr, "replace stored asset", err))
		return
	}

	url, err := h.blob.DownloadURL(c.Request.Context(), fileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.Err(serializer.CodeErr, "derive download url", err))
		return
	}

	if err := h.svc.Update(c.Request.Context(), id, map[string]any{urlField: url}); err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: ReplaceAssetResp{FileID: fileID, URL: url}})
}

var assetURLFields = map[string]string{
	"model3d": "model3dUrl",
	"video":   "videoUrl",
	"image":   "imageUrl",
}

func assetFileID(a *model.Artefact, kind string) string {
	switch kind {
	case "model3d":
		return a.Model3DFileID
	case "video":
		return a.VideoFileID
	case "image":
		return a.ImageFileID
	}
	return ""
}
