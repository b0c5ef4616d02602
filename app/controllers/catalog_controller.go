package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/foodhub/app/services"
	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/pkg/ctx"
	"github.com/shashiranjanraj/foodhub/pkg/i18n"
)

// CatalogController serves /restaurants, /categories and /foods.
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ─── Restaurants ──────────────────────────────────────────────────────────────

func (h *CatalogController) CreateRestaurant(c *ctx.Context) {
	var in services.RestaurantInput
	if !c.BindJSON(&in) {
		return
	}
	r, err := h.catalog.CreateRestaurant(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(i18n.RestaurantCreated, r)
}

func (h *CatalogController) Restaurants(c *ctx.Context) {
	skip, limit, ok := c.Page()
	if !ok {
		return
	}
	page, err := h.catalog.Restaurants(c.Context(), skip, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.RestaurantsFetched, page)
}

func (h *CatalogController) Restaurant(c *ctx.Context) {
	r, err := h.catalog.Restaurant(c.Context(), c.Param("uuid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.RestaurantFetched, r)
}

func (h *CatalogController) UpdateRestaurant(c *ctx.Context) {
	var in services.RestaurantPatch
	if !c.BindJSON(&in) {
		return
	}
	r, err := h.catalog.UpdateRestaurant(c.Context(), c.Param("uuid"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.RestaurantUpdated, r)
}

func (h *CatalogController) DeleteRestaurant(c *ctx.Context) {
	if err := h.catalog.DeleteRestaurant(c.Context(), c.Param("uuid")); err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.RestaurantDeleted, nil)
}

// ─── Categories ───────────────────────────────────────────────────────────────

func (h *CatalogController) CreateCategory(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	m, err := h.catalog.CreateCategory(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(i18n.CategoryCreated, m)
}

func (h *CatalogController) CategoriesOf(c *ctx.Context) {
	id, ok := idParam(c, "restaurantId")
	if !ok {
		return
	}
	list, err := h.catalog.CategoriesOf(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.CategoriesFetched, list)
}

func (h *CatalogController) UpdateCategory(c *ctx.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.CategoryPatch
	if !c.BindJSON(&in) {
		return
	}
	m, err := h.catalog.UpdateCategory(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.CategoryUpdated, m)
}

func (h *CatalogController) DeleteCategory(c *ctx.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.CategoryDeleted, nil)
}

// ─── Foods ────────────────────────────────────────────────────────────────────

func (h *CatalogController) CreateFood(c *ctx.Context) {
	var in services.FoodInput
	if !c.BindJSON(&in) {
		return
	}
	m, err := h.catalog.CreateFood(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(i18n.FoodCreated, m)
}

func (h *CatalogController) FoodsOf(c *ctx.Context) {
	id, ok := idParam(c, "categoryId")
	if !ok {
		return
	}
	list, err := h.catalog.FoodsOf(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.FoodsFetched, list)
}

func (h *CatalogController) UpdateFood(c *ctx.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.FoodPatch
	if !c.BindJSON(&in) {
		return
	}
	m, err := h.catalog.UpdateFood(c.Context(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.FoodUpdated, m)
}

func (h *CatalogController) DeleteFood(c *ctx.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteFood(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.FoodDeleted, nil)
}

// UploadImage takes a multipart "image" part no larger than
// MAX_UPLOAD_BYTES.
func (h *CatalogController) UploadImage(c *ctx.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, int64(config.Int("MAX_UPLOAD_BYTES", 5<<20)))
	file, header, err := c.R.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.Invalid(map[string]string{"image": "The image is too large."})
			return
		}
		c.Invalid(map[string]string{"image": "The image field is required."})
		return
	}
	defer file.Close()

	m, err := h.catalog.UploadFoodImage(c.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, services.ErrInvalidImage) {
			c.Invalid(map[string]string{"image": "The image must be a jpeg, png, webp or gif file."})
			return
		}
		fail(c, err)
		return
	}
	c.OK(i18n.FoodImageUploaded, m)
}
