package http

import (
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/AnthonyLaw/symbol-tomatina-script/artwork"
	"github.com/AnthonyLaw/symbol-tomatina-script/constants"
	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
	"github.com/AnthonyLaw/symbol-tomatina-script/orders"
	"github.com/AnthonyLaw/symbol-tomatina-script/utils"
)

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type OrderResponse struct {
	OrderID            uint64   `json:"order_id"`
	Message            string   `json:"message"`
	OrderHash          string   `json:"order_hash"`
	BuyerAddress       string   `json:"buyer_address"`
	Paid               uint64   `json:"paid"`
	MosaicHash         string   `json:"mosaic_hash"`
	MosaicID           string   `json:"mosaic_id"`
	ImageHashes        []string `json:"image_hash"`
	ImageSize          int64    `json:"image_size"`
	ImageContainerHash string   `json:"image_container_hash"`
	SettlementHash     string   `json:"settlement_hash"`
	OrderStatus        string   `json:"order_status"`
	Image              string   `json:"image"`
}

type GalleryEntryResponse struct {
	OrderID            uint64 `json:"order_id"`
	MosaicID           string `json:"mosaic_id"`
	BuyerAddress       string `json:"buyer_address"`
	ImageContainerHash string `json:"image_container_hash"`
	Image              string `json:"image"`
}

type HttpService struct {
	ordersSvc orders.OrdersService
	imagesDir string
	baseUrl   string
}

func NewHttpService(ordersSvc orders.OrdersService, imagesDir string, baseUrl string) *HttpService {
	return &HttpService{
		ordersSvc: ordersSvc,
		imagesDir: imagesDir,
		baseUrl:   strings.TrimRight(baseUrl, "/"),
	}
}

func (httpSvc *HttpService) RegisterRoutes(e *echo.Echo) {
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogHost:      true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			logger.HttpLogger.Info().
				Str("uri", values.URI).
				Int("status", values.Status).
				Str("remote_ip", values.RemoteIP).
				Str("user_agent", values.UserAgent).
				Str("host", values.Host).
				Str("request_id", values.RequestID).
				Msg("handled API request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/api/orders", httpSvc.listOrdersHandler)
	e.GET("/api/gallery", httpSvc.galleryHandler)
	e.GET("/images/:filename", httpSvc.imageHandler)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Status:  http.StatusNotFound,
			Message: "Resource not found",
		})
	})
}

func (httpSvc *HttpService) listOrdersHandler(c echo.Context) error {
	allOrders, err := httpSvc.ordersSvc.ListOrders()
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list orders")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Status:  http.StatusInternalServerError,
			Message: err.Error(),
		})
	}

	if status := c.QueryParam("status"); status != "" {
		if !slices.Contains(constants.GetOrderStates(), status) {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Status:  http.StatusBadRequest,
				Message: "Unknown order status: " + status,
			})
		}
		allOrders = utils.Filter(allOrders, func(order orders.Order) bool {
			return order.Status == status
		})
	}

	response := make([]OrderResponse, 0, len(allOrders))
	for _, order := range allOrders {
		imageHashes, err := orders.ImageHashes(&order)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Status:  http.StatusInternalServerError,
				Message: err.Error(),
			})
		}
		response = append(response, OrderResponse{
			OrderID:            order.OrderID,
			Message:            order.Message,
			OrderHash:          order.OrderHash,
			BuyerAddress:       order.BuyerAddress,
			Paid:               order.Paid,
			MosaicHash:         order.MosaicHash,
			MosaicID:           order.MosaicID,
			ImageHashes:        imageHashes,
			ImageSize:          order.ImageSize,
			ImageContainerHash: order.ImageContainerHash,
			SettlementHash:     order.SettlementHash,
			OrderStatus:        order.Status,
			Image:              httpSvc.imageUrl(c, order.Message),
		})
	}

	return c.JSON(http.StatusOK, response)
}

func (httpSvc *HttpService) galleryHandler(c echo.Context) error {
	completed, err := httpSvc.ordersSvc.ListOrdersByStatus(constants.ORDER_STATE_COMPLETED)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list completed orders")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Status:  http.StatusInternalServerError,
			Message: err.Error(),
		})
	}

	response := make([]GalleryEntryResponse, 0, len(completed))
	for _, order := range completed {
		response = append(response, GalleryEntryResponse{
			OrderID:            order.OrderID,
			MosaicID:           order.MosaicID,
			BuyerAddress:       order.BuyerAddress,
			ImageContainerHash: order.ImageContainerHash,
			Image:              httpSvc.imageUrl(c, order.Message),
		})
	}

	return c.JSON(http.StatusOK, response)
}

func (httpSvc *HttpService) imageHandler(c echo.Context) error {
	filename := c.Param("filename")
	if filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Status:  http.StatusNotFound,
			Message: "Resource not found",
		})
	}

	path := filepath.Join(httpSvc.imagesDir, filename)
	if _, err := os.Stat(path); err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Status:  http.StatusNotFound,
			Message: "Resource not found",
		})
	}
	return c.File(path)
}

func (httpSvc *HttpService) imageUrl(c echo.Context, message string) string {
	base := httpSvc.baseUrl
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	return base + "/images/" + artwork.ImageFilename(message)
}
