package model

import (
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

type ArtefactStatus string

const (
	StatusDraft     ArtefactStatus = "draft"
	StatusPublished ArtefactStatus = "published"
	StatusArchived  ArtefactStatus = "archived"
)

func ValidStatus(s string) bool {
	switch ArtefactStatus(s) {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Artefact is the catalog entry for one media artefact. Each asset is an
// independent (url, fileId) pair; a pair is either both set or both unset.
// Optional fields carry omitempty so the stored document only contains fields
// that were actually provided.
type Artefact struct {
	ID string `json:"id,omitempty"`

	Model3DURL string `json:"model3dUrl,omitempty"`
	VideoURL   string `json:"videoUrl,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`

	Model3DFileID string `json:"model3dFileId,omitempty"`
	VideoFileID   string `json:"videoFileId,omitempty"`
	ImageFileID   string `json:"imageFileId,omitempty"`

	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	CreatedBy string `json:"createdBy,omitempty"`
	UpdatedBy string `json:"updatedBy,omitempty"`

	Status   ArtefactStatus `json:"status,omitempty"`
	IsPublic bool           `json:"isPublic"`
}

// DocumentData serializes the artefact into a document payload. The id is never
// part of the payload; it is owned by the document store.
func (a *Artefact) DocumentData() (map[string]any, error) {
	clone := *a
	clone.ID = ""

	b, err := sonic.Marshal(&clone)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := sonic.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// ArtefactFromDocument rebuilds an artefact from a stored document payload,
// attaching the store-assigned id.
func ArtefactFromDocument(id uuid.UUID, data map[string]any) (*Artefact, error) {
	b, err := sonic.Marshal(data)
	if err != nil {
		return nil, err
	}
	var a Artefact
	if err := sonic.Unmarshal(b, &a); err != nil {
		return nil, err
	}
	a.ID = id.String()
	return &a, nil
}
