package handler

import (
	"net/http"

	"github.com/curiomuse/artefact-catalog/internal/modules/serializer"
	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	blob BlobGateway
}

func NewFileHandler(b BlobGateway) *FileHandler {
	return &FileHandler{blob: b}
}

// ListFiles godoc
//
//	@Summary		List stored files
//	@Description	List objects in the storage bucket, optionally filtered by key prefix
//	@Tags			file
//	@Produce		json
//	@Param			prefix	query	string	false	"Key prefix filter"
//	@Success		200	{object}	serializer.Response{data=[]blob.FileInfo}
//	@Router			/files [get]
func (h *FileHandler) ListFiles(c *gin.Context) {
	files, err := h.blob.List(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.Err(serializer.CodeErr, "list files", err))
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: files})
}

type GetFileReq struct {
	WithURLs bool `form:"with_urls,default=false"`
	Width    int  `form:"width"`
	Height   int  `form:"height"`
}

type GetFileResp struct {
	File        any     `json:"file"`
	PreviewURL  *string `json:"preview_url,omitempty"`
	DownloadURL *string `json:"download_url,omitempty"`
}

// GetFile godoc
//
//	@Summary		Get file metadata
//	@Description	Fetch storage metadata for one file, optionally with preview and download URLs
//	@Tags			file
//	@Produce		json
//	@Param			file_id		path	string	true	"File ID"
//	@Param			with_urls	query	boolean	false	"Include preview/download URLs"
//	@Param			width		query	int		false	"Preview width hint"
//	@Param			height		query	int		false	"Preview height hint"
//	@Success		200	{object}	serializer.Response{data=handler.GetFileResp}
//	@Router			/files/{file_id} [get]
func (h *FileHandler) GetFile(c *gin.Context) {
	req := GetFileReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	fileID := c.Param("file_id")
	info, err := h.blob.GetMetadata(c.Request.Context(), fileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.Err(serializer.CodeErr, "get file metadata", err))
		return
	}

	resp := GetFileResp{File: info}
	if req.WithURLs {
		preview, err := h.blob.PreviewURL(c.Request.Context(), fileID, req.Width, req.Height)
		if err != nil {
			c.JSON(http.StatusInternalServerError, serializer.Err(serializer.CodeErr, "derive preview url", err))
			return
		}
		download, err := h.blob.DownloadURL(c.Request.Context(), fileID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, serializer.Err(serializer.CodeErr, "derive download url", err))
			return
		}
		resp.PreviewURL = &preview
		resp.DownloadURL = &download
	}

	c.JSON(http.StatusOK, serializer.Response{Data: resp})
}
