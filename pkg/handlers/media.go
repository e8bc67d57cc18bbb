package handlers

import (
	"net/http"

	"portfolio-cms/pkg/editor"
	"portfolio-cms/pkg/pipeline"
	"portfolio-cms/pkg/services"

	"github.com/gin-gonic/gin"
)

// UploadMedia stores an uploaded file in the draft. card and bg replace the
// item images, gallery and document append. The answered name is the one the
// file is published under.
func (a *API) UploadMedia(c *gin.Context) {
	slot := c.Param("slot")
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	asset, err := a.media.Ingest(file, slot)
	if err != nil {
		respondError(c, err)
		return
	}

	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		name := asset.Name
		switch slot {
		case services.SlotGallery:
			s.AddGalleryImage(asset)
			_, gallery := pipeline.PublishedNames(s.Snapshot())
			name = gallery[len(gallery)-1]
		case services.SlotDocument:
			s.AddDocument(asset)
			docs, _ := pipeline.PublishedNames(s.Snapshot())
			name = docs[len(docs)-1]
		default:
			if err := s.SetImage(slot, &asset); err != nil {
				return nil, err
			}
		}
		return gin.H{"slot": slot, "name": name, "mime": asset.MIME}, nil
	})
}

// RemoveImage clears the card or bg image.
func (a *API) RemoveImage(c *gin.Context) {
	slot := c.Param("slot")
	if slot != services.SlotCard && slot != services.SlotBG {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only card and bg can be removed"})
		return
	}
	a.mutate(c, func(s *editor.Session) (gin.H, error) {
		return gin.H{"slot": slot}, s.SetImage(slot, nil)
	})
}
