package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/opskrifter/internal/logging"
	"github.com/pageza/opskrifter/internal/middleware"
	"github.com/pageza/opskrifter/internal/service"
)

// ImageHandler stores uploaded recipe images
type ImageHandler struct {
	recipes service.IRecipeService
	images  service.IImageService
}

func NewImageHandler(recipes service.IRecipeService, images service.IImageService) *ImageHandler {
	return &ImageHandler{recipes: recipes, images: images}
}

func (h *ImageHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/recipes/:id/image", h.UploadRecipeImage)
}

// UploadRecipeImage takes a multipart "image" file, uploads it and points
// the recipe at it
func (h *ImageHandler) UploadRecipeImage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.recipes.Get(ctx, id); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			middleware.AbortWithError(c, http.StatusNotFound, "not_found", MsgNotFound)
			return
		}
		logging.New(ctx).Error("UploadRecipeImage", err)
		middleware.AbortWithError(c, http.StatusInternalServerError, "internal_error", middleware.MsgInternal)
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid_request", "Billedfil mangler")
		return
	}
	file, err := header.Open()
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid_request", "Billedfilen kunne ikke læses")
		return
	}
	defer file.Close()

	url, err := h.images.Upload(ctx, file, header.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, service.ErrUnsupportedImage):
		middleware.AbortWithError(c, http.StatusUnsupportedMediaType, "unsupported_image", "Billedformatet understøttes ikke")
		return
	case errors.Is(err, service.ErrImageTooLarge):
		middleware.AbortWithError(c, http.StatusRequestEntityTooLarge, "image_too_large", "Billedet er for stort")
		return
	case err != nil:
		logging.New(ctx).Error("UploadRecipeImage", err)
		middleware.AbortWithError(c, http.StatusBadGateway, "upload_failed", "Billedet kunne ikke gemmes")
		return
	}

	recipe, err := h.recipes.SetImage(ctx, id, url)
	if err != nil {
		logging.New(ctx).Error("UploadRecipeImage", err)
		middleware.AbortWithError(c, http.StatusInternalServerError, "internal_error", middleware.MsgInternal)
		return
	}
	c.JSON(http.StatusOK, recipeResponse{Recipe: *recipe, Message: "Billedet er gemt"})
}
