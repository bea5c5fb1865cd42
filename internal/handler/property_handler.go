package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"induohouse/internal/errors"
	"induohouse/internal/middleware"
	"induohouse/internal/model"
	"induohouse/internal/pagination"
	"induohouse/internal/repository"
	"induohouse/internal/service"
)

// defaultSort orders listings newest first.
const defaultSort = "createdAt,desc"

// PropertyHandler handles listing endpoints.
type PropertyHandler struct {
	propertyService service.PropertyService
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(propertyService service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// CreatePropertyRequest represents a new listing.
type CreatePropertyRequest struct {
	Title           string           `json:"title" validate:"required,max=255"`
	Description     string           `json:"description" validate:"omitempty,max=2000"`
	Price           decimal.Decimal  `json:"price" validate:"required,gt=0,lte=9999999999.99"`
	Area            decimal.Decimal  `json:"area" validate:"required,gt=0,lte=999999.99"`
	City            string           `json:"city" validate:"required,max=100"`
	Street          string           `json:"street" validate:"omitempty,max=255"`
	PostalCode      string           `json:"postalCode" validate:"omitempty,postalcode"`
	NumberOfRooms   *int             `json:"numberOfRooms" validate:"omitempty,min=1,max=50"`
	Floor           *int             `json:"floor" validate:"omitempty,min=-2,max=100"`
	TotalFloors     *int             `json:"totalFloors" validate:"omitempty,min=1,max=100"`
	TransactionType string           `json:"transactionType" validate:"required,oneof=SALE RENT"`
	PropertyType    string           `json:"propertyType" validate:"required,oneof=APARTMENT HOUSE LAND"`
}

// UpdatePropertyRequest represents a partial update; absent fields are left
// untouched.
type UpdatePropertyRequest struct {
	Title           *string          `json:"title" validate:"omitempty,max=255"`
	Description     *string          `json:"description" validate:"omitempty,max=2000"`
	Price           *decimal.Decimal `json:"price" validate:"omitempty,gt=0,lte=9999999999.99"`
	Area            *decimal.Decimal `json:"area" validate:"omitempty,gt=0,lte=999999.99"`
	City            *string          `json:"city" validate:"omitempty,max=100"`
	Street          *string          `json:"street" validate:"omitempty,max=255"`
	PostalCode      *string          `json:"postalCode" validate:"omitempty,postalcode"`
	NumberOfRooms   *int             `json:"numberOfRooms" validate:"omitempty,min=1,max=50"`
	Floor           *int             `json:"floor" validate:"omitempty,min=-2,max=100"`
	TotalFloors     *int             `json:"totalFloors" validate:"omitempty,min=1,max=100"`
	TransactionType *string          `json:"transactionType" validate:"omitempty,oneof=SALE RENT"`
	PropertyType    *string          `json:"propertyType" validate:"omitempty,oneof=APARTMENT HOUSE LAND"`
}

// OwnerResponse is the public slice of a listing owner's profile.
type OwnerResponse struct {
	ID          uint   `json:"id"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// ImageResponse represents one attached image.
type ImageResponse struct {
	ID        uint   `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
	SortOrder int    `json:"sortOrder"`
}

// PropertyResponse is the full representation of a listing.
type PropertyResponse struct {
	ID              uint            `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Area            decimal.Decimal `json:"area"`
	City            string          `json:"city"`
	Street          string          `json:"street,omitempty"`
	PostalCode      string          `json:"postalCode,omitempty"`
	NumberOfRooms   *int            `json:"numberOfRooms,omitempty"`
	Floor           *int            `json:"floor,omitempty"`
	TotalFloors     *int            `json:"totalFloors,omitempty"`
	TransactionType string          `json:"transactionType"`
	PropertyType    string          `json:"propertyType"`
	Status          string          `json:"status"`
	Owner           OwnerResponse   `json:"owner"`
	Images          []ImageResponse `json:"images"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// PropertyListResponse is the summary shown on result pages: core fields plus
// the primary image and the owner's contact details.
type PropertyListResponse struct {
	ID              uint            `json:"id"`
	Title           string          `json:"title"`
	Price           decimal.Decimal `json:"price"`
	Area            decimal.Decimal `json:"area"`
	City            string          `json:"city"`
	TransactionType string          `json:"transactionType"`
	PropertyType    string          `json:"propertyType"`
	PrimaryImageURL string          `json:"primaryImageUrl,omitempty"`
	OwnerFirstName  string          `json:"ownerFirstName,omitempty"`
	OwnerLastName   string          `json:"ownerLastName,omitempty"`
	OwnerPhone      string          `json:"ownerPhone,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func toPropertyResponse(p *model.Property) PropertyResponse {
	images := make([]ImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		})
	}
	return PropertyResponse{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Price:           p.Price,
		Area:            p.Area,
		City:            p.City,
		Street:          p.Street,
		PostalCode:      p.PostalCode,
		NumberOfRooms:   p.NumberOfRooms,
		Floor:           p.Floor,
		TotalFloors:     p.TotalFloors,
		TransactionType: string(p.TransactionType),
		PropertyType:    string(p.PropertyType),
		Status:          string(p.Status),
		Owner: OwnerResponse{
			ID:          p.User.ID,
			FirstName:   p.User.FirstName,
			LastName:    p.User.LastName,
			PhoneNumber: p.User.PhoneNumber,
		},
		Images:    images,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPropertyListResponse(p model.Property) PropertyListResponse {
	return PropertyListResponse{
		ID:              p.ID,
		Title:           p.Title,
		Price:           p.Price,
		Area:            p.Area,
		City:            p.City,
		TransactionType: string(p.TransactionType),
		PropertyType:    string(p.PropertyType),
		PrimaryImageURL: p.PrimaryImageURL(),
		OwnerFirstName:  p.User.FirstName,
		OwnerLastName:   p.User.LastName,
		OwnerPhone:      p.User.PhoneNumber,
		CreatedAt:       p.CreatedAt,
	}
}

// GetAll godoc
// @Summary List all properties, paginated
// @Tags properties
// @Produce json
// @Param page query int false "Page number (zero-based)"
// @Param size query int false "Page size (max 100)"
// @Param sort query string false "Sort, e.g. price,asc"
// @Success 200 {object} pagination.Page[PropertyListResponse]
// @Router /properties [get]
func (h *PropertyHandler) GetAll(c echo.Context) error {
	return h.respondPage(c, repository.PropertyFilter{}, h.pageRequest(c, defaultSort))
}

// Search godoc
// @Summary Search properties by city and/or type
// @Tags properties
// @Produce json
// @Param city query string false "City filter"
// @Param propertyType query string false "Property type filter"
// @Success 200 {object} pagination.Page[PropertyListResponse]
// @Router /properties/search [get]
func (h *PropertyHandler) Search(c echo.Context) error {
	filter := repository.PropertyFilter{
		City:         c.QueryParam("city"),
		PropertyType: model.PropertyType(c.QueryParam("propertyType")),
	}
	return h.respondPage(c, filter, h.pageRequest(c, defaultSort))
}

// GetByCity godoc
// @Summary List properties in a city
// @Tags properties
// @Produce json
// @Param city path string true "City"
// @Success 200 {object} pagination.Page[PropertyListResponse]
// @Router /properties/city/{city} [get]
func (h *PropertyHandler) GetByCity(c echo.Context) error {
	filter := repository.PropertyFilter{City: c.Param("city")}
	return h.respondPage(c, filter, h.pageRequest(c, defaultSort))
}

// GetByType godoc
// @Summary List properties of a type
// @Tags properties
// @Produce json
// @Param type path string true "Property type"
// @Success 200 {object} pagination.Page[PropertyListResponse]
// @Router /properties/type/{type} [get]
func (h *PropertyHandler) GetByType(c echo.Context) error {
	filter := repository.PropertyFilter{PropertyType: model.PropertyType(c.Param("type"))}
	return h.respondPage(c, filter, h.pageRequest(c, defaultSort))
}

// GetByUser godoc
// @Summary List a user's properties
// @Tags properties
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} pagination.Page[PropertyListResponse]
// @Router /properties/user/{userId} [get]
func (h *PropertyHandler) GetByUser(c echo.Context) error {
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	filter := repository.PropertyFilter{UserID: userID}
	return h.respondPage(c, filter, h.pageRequest(c, defaultSort))
}

// GetByPriceRange godoc
// @Summary List properties within a price range
// @Tags properties
// @Produce json
// @Param minPrice query number true "Minimum price"
// @Param maxPrice query number true "Maximum price"
// @Success 200 {object} pagination.Page[PropertyListResponse]
// @Router /properties/price-range [get]
func (h *PropertyHandler) GetByPriceRange(c echo.Context) error {
	minPrice, err := decimal.NewFromString(c.QueryParam("minPrice"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid minPrice")
	}
	maxPrice, err := decimal.NewFromString(c.QueryParam("maxPrice"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid maxPrice")
	}

	filter := repository.PropertyFilter{MinPrice: &minPrice, MaxPrice: &maxPrice}
	return h.respondPage(c, filter, h.pageRequest(c, "price,asc"))
}

// My godoc
// @Summary List the authenticated user's properties
// @Tags properties
// @Produce json
// @Success 200 {object} pagination.Page[PropertyListResponse]
// @Failure 401 {object} errors.ErrorResponse
// @Router /properties/my [get]
func (h *PropertyHandler) My(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return errors.ErrUnauthorized
	}
	filter := repository.PropertyFilter{UserID: user.ID}
	return h.respondPage(c, filter, h.pageRequest(c, defaultSort))
}

// GetByID godoc
// @Summary Get a single property with images and owner
// @Tags properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} PropertyResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [get]
func (h *PropertyHandler) GetByID(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	property, err := h.propertyService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPropertyResponse(property))
}

// Create godoc
// @Summary Create a property listing
// @Tags properties
// @Accept json
// @Produce json
// @Param request body CreatePropertyRequest true "Listing data"
// @Success 201 {object} PropertyResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return errors.ErrUnauthorized
	}

	var req CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := service.PropertyInput{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		Area:            req.Area,
		City:            req.City,
		Street:          req.Street,
		PostalCode:      req.PostalCode,
		NumberOfRooms:   req.NumberOfRooms,
		Floor:           req.Floor,
		TotalFloors:     req.TotalFloors,
		TransactionType: model.TransactionType(req.TransactionType),
		PropertyType:    model.PropertyType(req.PropertyType),
	}

	property, err := h.propertyService.Create(c.Request().Context(), input, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPropertyResponse(property))
}

// Patch godoc
// @Summary Partially update an owned property
// @Tags properties
// @Accept json
// @Produce json
// @Param id path int true "Property ID"
// @Param request body UpdatePropertyRequest true "Fields to update"
// @Success 200 {object} PropertyResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [patch]
func (h *PropertyHandler) Patch(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return errors.ErrUnauthorized
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	var req UpdatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	patch := service.PropertyPatch{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Area:          req.Area,
		City:          req.City,
		Street:        req.Street,
		PostalCode:    req.PostalCode,
		NumberOfRooms: req.NumberOfRooms,
		Floor:         req.Floor,
		TotalFloors:   req.TotalFloors,
	}
	if req.TransactionType != nil {
		tt := model.TransactionType(*req.TransactionType)
		patch.TransactionType = &tt
	}
	if req.PropertyType != nil {
		pt := model.PropertyType(*req.PropertyType)
		patch.PropertyType = &pt
	}

	property, err := h.propertyService.UpdatePatch(c.Request().Context(), patch, id, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPropertyResponse(property))
}

// Delete godoc
// @Summary Delete an owned property
// @Tags properties
// @Param id path int true "Property ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return errors.ErrUnauthorized
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	if err := h.propertyService.Delete(c.Request().Context(), id, user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage godoc
// @Summary Attach an image to an owned property
// @Tags properties
// @Accept mpfd
// @Produce json
// @Param id path int true "Property ID"
// @Param file formData file true "Image file (max 5MB)"
// @Param isPrimary formData bool false "Mark as primary"
// @Success 201 {object} ImageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /properties/{id}/images [post]
func (h *PropertyHandler) UploadImage(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return errors.ErrUnauthorized
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	isPrimary, _ := strconv.ParseBool(c.FormValue("isPrimary"))

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer src.Close()

	upload := service.ImageUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      src,
	}

	image, err := h.propertyService.AddImage(c.Request().Context(), id, upload, isPrimary, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ImageResponse{
		ID:        image.ID,
		URL:       image.URL,
		IsPrimary: image.IsPrimary,
		SortOrder: image.SortOrder,
	})
}

// DeleteImage godoc
// @Summary Remove an image from an owned property
// @Tags properties
// @Param propertyId path int true "Property ID"
// @Param imageId path int true "Image ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{propertyId}/images/{imageId} [delete]
func (h *PropertyHandler) DeleteImage(c echo.Context) error {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		return errors.ErrUnauthorized
	}

	propertyID, err := parseID(c.Param("propertyId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}
	imageID, err := parseID(c.Param("imageId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image id")
	}

	if err := h.propertyService.DeleteImage(c.Request().Context(), propertyID, imageID, user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PropertyHandler) pageRequest(c echo.Context, sortDefault string) pagination.Request {
	return pagination.Parse(
		c.QueryParam("page"),
		c.QueryParam("size"),
		c.QueryParam("sort"),
		sortDefault,
	)
}

func (h *PropertyHandler) respondPage(c echo.Context, filter repository.PropertyFilter, page pagination.Request) error {
	result, err := h.propertyService.Search(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.Map(result, toPropertyListResponse))
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
