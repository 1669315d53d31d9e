package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zaplink/zaplink/internal/services"
)

// CreateLinkRequest is the JSON body for creating a link. Type may be
// omitted; it is inferred from the fields that are present.
type CreateLinkRequest struct {
	Title            string `json:"title" binding:"required"`
	URL              string `json:"url" binding:"required"`
	Type             string `json:"type" binding:"omitempty,oneof=custom platform contact embed"`
	PlatformName     string `json:"platformName"`
	PlatformCategory string `json:"platformCategory"`
	DisplayMode      string `json:"displayMode" binding:"omitempty,oneof=standard featured grid"`
	ThumbnailURL     string `json:"thumbnailUrl"`
	ContactType      string `json:"contactType"`
	ContactValue     string `json:"contactValue"`
}

// UpdateLinkRequest is the JSON body for a partial link update.
type UpdateLinkRequest struct {
	Title        *string `json:"title"`
	URL          *string `json:"url"`
	IsHidden     *bool   `json:"isHidden"`
	DisplayMode  *string `json:"displayMode" binding:"omitempty,oneof=standard featured grid"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	ContactType  *string `json:"contactType"`
	ContactValue *string `json:"contactValue"`
}

// ReorderLinksRequest carries the desired display order as link ids.
type ReorderLinksRequest struct {
	OrderedIDs []uint `json:"orderedIds" binding:"required"`
}

// ListLinksHandler returns all of the caller's links, hidden ones included.
func ListLinksHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		links, err := linkService.ListForOwner(callerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, links)
	}
}

// ListPublicLinksHandler returns the visible links for a public profile.
func ListPublicLinksHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		links, err := linkService.ListPublic(c.Param("username"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, links)
	}
}

// CreateLinkHandler creates a link with its type-specific extension data.
func CreateLinkHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		link, err := linkService.CreateLink(callerID(c), services.CreateLinkInput{
			Title:            req.Title,
			URL:              req.URL,
			Type:             req.Type,
			PlatformName:     req.PlatformName,
			PlatformCategory: req.PlatformCategory,
			DisplayMode:      req.DisplayMode,
			ThumbnailURL:     req.ThumbnailURL,
			ContactType:      req.ContactType,
			ContactValue:     req.ContactValue,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	}
}

// UpdateLinkHandler applies a partial patch to one link.
func UpdateLinkHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		linkID, ok := linkIDParam(c)
		if !ok {
			return
		}
		var req UpdateLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		link, err := linkService.UpdateLink(callerID(c), linkID, services.UpdateLinkInput{
			Title:        req.Title,
			URL:          req.URL,
			IsHidden:     req.IsHidden,
			DisplayMode:  req.DisplayMode,
			ThumbnailURL: req.ThumbnailURL,
			ContactType:  req.ContactType,
			ContactValue: req.ContactValue,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, link)
	}
}

// ReorderLinksHandler rewrites the display order of the caller's links.
func ReorderLinksHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReorderLinksRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		if err := linkService.ReorderLinks(callerID(c), req.OrderedIDs); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// DeleteLinkHandler deletes one link and returns the deleted row.
func DeleteLinkHandler(linkService *services.LinkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		linkID, ok := linkIDParam(c)
		if !ok {
			return
		}
		link, err := linkService.DeleteLink(callerID(c), linkID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, link)
	}
}

// linkIDParam parses the :id path segment; on failure it writes the 400
// response itself.
func linkIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link id"})
		return 0, false
	}
	return uint(id), true
}
