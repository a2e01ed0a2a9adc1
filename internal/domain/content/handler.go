package content

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio/internal/pkg/apperr"
	"portfolio/internal/pkg/response"
)

// Handler exposes the admin CRUD endpoints of every content kind.
type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes mounts the admin endpoints. The group is expected to be
// behind the admin auth middleware.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	registerSingleton(admin, h.catalog.Profile)
	registerSingleton(admin, h.catalog.About)
	registerSingleton(admin, h.catalog.Contact)

	registerCollection(admin, h.catalog.Experiences)
	registerCollection(admin, h.catalog.Projects)
	registerCollection(admin, h.catalog.Skills)
	registerCollection(admin, h.catalog.SocialLinks)
	registerCollection(admin, h.catalog.Educations)
	registerCollection(admin, h.catalog.Services)
}

type sectionHandler[T any, P ptrRecord[T]] struct {
	section *Section[T, P]
}

func registerSingleton[T any, P ptrRecord[T]](g *gin.RouterGroup, s *Section[T, P]) {
	h := &sectionHandler[T, P]{section: s}
	path := "/" + s.Kind().Path
	g.GET(path, h.Current)
	g.POST(path, h.SaveCurrent)
}

func registerCollection[T any, P ptrRecord[T]](g *gin.RouterGroup, s *Section[T, P]) {
	h := &sectionHandler[T, P]{section: s}
	grp := g.Group("/" + s.Kind().Path)
	{
		grp.GET("", h.List)
		grp.POST("", h.Create)
		grp.GET("/:id", h.Get)
		grp.POST("/:id", h.Update)
		grp.GET("/:id/delete", h.ConfirmDelete)
		grp.POST("/:id/delete", h.Delete)
	}
}

// Current godoc
// @Summary Get a singleton section (profile, about, contact)
// @Description Returns the stored record, or an empty one when nothing was saved yet.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /admin/{section} [get]
func (h *sectionHandler[T, P]) Current(c *gin.Context) {
	rec, err := h.section.Current(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// SaveCurrent godoc
// @Summary Create or update a singleton section
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param profilePicture formData file false "Profile picture (profile only)"
// @Param cvFile formData file false "CV, stored as resume.<ext> (profile only)"
// @Success 200 {object} map[string]interface{}
// @Failure 400,422,500 {object} map[string]interface{}
// @Router /admin/{section} [post]
func (h *sectionHandler[T, P]) SaveCurrent(c *gin.Context) {
	rec, uploads, ok := h.bind(c)
	if !ok {
		return
	}
	h.save(c, rec, uploads, http.StatusOK)
}

// List godoc
// @Summary List records of a collection section
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /admin/{section} [get]
func (h *sectionHandler[T, P]) List(c *gin.Context) {
	recs, err := h.section.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recs)
}

// Create godoc
// @Summary Create a record in a collection section
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param projectImage formData file false "Project image (projects only)"
// @Param serviceImage formData file false "Service image (services only)"
// @Success 201 {object} map[string]interface{}
// @Failure 400,422,500 {object} map[string]interface{}
// @Router /admin/{section} [post]
func (h *sectionHandler[T, P]) Create(c *gin.Context) {
	rec, uploads, ok := h.bind(c)
	if !ok {
		return
	}
	rec.SetID(0)
	h.save(c, rec, uploads, http.StatusCreated)
}

// Get godoc
// @Summary Get one record of a collection section
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400,404 {object} map[string]interface{}
// @Router /admin/{section}/{id} [get]
func (h *sectionHandler[T, P]) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.section.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

// Update godoc
// @Summary Update a record of a collection section
// @Description File fields without a new upload keep their stored value.
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400,404,422,500 {object} map[string]interface{}
// @Router /admin/{section}/{id} [post]
func (h *sectionHandler[T, P]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, uploads, ok := h.bind(c)
	if !ok {
		return
	}
	rec.SetID(id)
	h.save(c, rec, uploads, http.StatusOK)
}

// ConfirmDelete godoc
// @Summary Show the record a delete would remove
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400,404 {object} map[string]interface{}
// @Router /admin/{section}/{id}/delete [get]
func (h *sectionHandler[T, P]) ConfirmDelete(c *gin.Context) {
	h.Get(c)
}

// Delete godoc
// @Summary Delete a record and its files
// @Description Deleting an unknown id is a no-op reported as deleted=false.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400,500 {object} map[string]interface{}
// @Router /admin/{section}/{id}/delete [post]
func (h *sectionHandler[T, P]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.section.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"deleted": true, "id": id})
	case apperr.IsCode(err, apperr.CodeNotFound):
		response.Success(c, http.StatusOK, gin.H{"deleted": false, "id": id})
	default:
		response.FromError(c, err)
	}
}

func (h *sectionHandler[T, P]) save(c *gin.Context, rec P, uploads map[string]Upload, status int) {
	saved, err := h.section.Save(c.Request.Context(), rec, uploads)
	if err != nil && saved != nil {
		// Committed, but a superseded file could not be removed.
		_ = c.Error(err)
		response.ErrorWithDetails(c, http.StatusInternalServerError, string(apperr.CodeIOFailure),
			"Saved, but a replaced file could not be removed", gin.H{"record": saved})
		return
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, status, saved)
}

// bind reads the record from a form, multipart or JSON body and collects
// the file parts the kind accepts.
func (h *sectionHandler[T, P]) bind(c *gin.Context) (P, map[string]Upload, bool) {
	rec := P(new(T))
	if err := c.ShouldBind(rec); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return nil, nil, false
	}

	uploads, err := formUploads(c, rec.Files())
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid file upload", err.Error())
		return nil, nil, false
	}
	return rec, uploads, true
}

func formUploads(c *gin.Context, slots []FileSlot) (map[string]Upload, error) {
	if len(slots) == 0 || c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}

	uploads := map[string]Upload{}
	for _, slot := range slots {
		fh, err := c.FormFile(slot.Part)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, err
		}
		// Browsers send an empty part for an untouched file input.
		if fh.Filename == "" && fh.Size == 0 {
			continue
		}
		uploads[slot.Part] = Upload{
			Name: fh.Filename,
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		}
	}
	return uploads, nil
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid record ID")
		return 0, false
	}
	return uint(id), true
}
