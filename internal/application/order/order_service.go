package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	shippingapp "github.com/salesmanager/backend/internal/application/shipping"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/domain/customer"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/order"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/shipping"
	"github.com/salesmanager/backend/internal/infrastructure/printing"
	"github.com/salesmanager/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ShippingQuoter prices the shipment of an order
type ShippingQuoter interface {
	ComputeShippingQuote(ctx context.Context, store *merchant.MerchantStore, req shippingapp.QuoteRequest) (*shipping.Quote, error)
}

// FileReader reads digital product files
type FileReader interface {
	GetFile(ctx context.Context, storeCode string, fileType content.FileContentType, path, fileName string) (*content.OutputContentFile, error)
}

// InvoicePrinter renders invoice PDFs
type InvoicePrinter interface {
	RenderPDF(ctx context.Context, data *printing.InvoiceData) ([]byte, error)
}

// OrderService places orders and manages their workflow, downloads and invoices
type OrderService struct {
	orderRepo    order.OrderRepository
	downloadRepo order.OrderProductDownloadRepository
	productRepo  catalog.ProductRepository
	stockRepo    catalog.ProductAvailabilityRepository
	customerRepo customer.CustomerRepository
	txScope      TransactionScope
	quoter       ShippingQuoter
	files        FileReader
	invoices     InvoicePrinter
	events       shared.EventPublisher
	metrics      *telemetry.ShopMetrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo order.OrderRepository,
	downloadRepo order.OrderProductDownloadRepository,
	productRepo catalog.ProductRepository,
	stockRepo catalog.ProductAvailabilityRepository,
	customerRepo customer.CustomerRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		downloadRepo: downloadRepo,
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		customerRepo: customerRepo,
		txScope:      txScope,
		metrics:      telemetry.NopShopMetrics(),
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the publisher for status change notifications
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// SetShippingQuoter sets the shipping price source. Without one shipping is free.
func (s *OrderService) SetShippingQuoter(quoter ShippingQuoter) {
	s.quoter = quoter
}

// SetFileReader sets the storage digital downloads are served from
func (s *OrderService) SetFileReader(files FileReader) {
	s.files = files
}

// SetInvoicePrinter sets the invoice renderer
func (s *OrderService) SetInvoicePrinter(invoices InvoicePrinter) {
	s.invoices = invoices
}

// SetMetrics sets the business metrics recorder
func (s *OrderService) SetMetrics(metrics *telemetry.ShopMetrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}

type pricedLine struct {
	input        order.LineInput
	weight       decimal.Decimal
	availability *catalog.ProductAvailability
}

// PlaceOrder prices the lines from the catalog, reserves stock and records the order
func (s *OrderService) PlaceOrder(ctx context.Context, store *merchant.MerchantStore, customerID uuid.UUID, lang string, req PlaceOrderRequest) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "order.PlaceOrder",
		attribute.String("store", store.Code),
		attribute.Int("lines", len(req.Lines)))
	defer telemetry.EndSpan(span, &err)

	c, err := s.customerRepo.FindByID(ctx, store.ID, customerID)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, shared.WrapDomainError("ACCOUNT_DEACTIVATED", "Customer account is deactivated", shared.ErrForbidden)
	}

	billing := c.Billing
	if req.Billing != nil {
		billing = *req.Billing
	}
	delivery := c.Delivery
	if req.Delivery != nil {
		delivery = *req.Delivery
	}
	if delivery.IsEmpty() {
		delivery = billing
	}
	country := strings.ToUpper(delivery.Country)

	currency := req.Currency
	if currency == "" {
		currency = store.Currency
	}

	now := s.now()
	lines := make([]pricedLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		pl, err := s.priceLine(ctx, store.ID, lang, country, l, now)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *pl)
	}

	inputs := make([]order.LineInput, 0, len(lines))
	weight := decimal.Zero
	for _, pl := range lines {
		inputs = append(inputs, pl.input)
		weight = weight.Add(pl.weight)
	}
	o, err := order.NewOrder(store.ID, c.ID, c.Email, currency, inputs)
	if err != nil {
		return nil, err
	}
	o.Billing = billing
	o.Delivery = delivery
	if lang != "" {
		o.Language = lang
	}

	shippingTotal := decimal.Zero
	if s.quoter != nil && weight.IsPositive() {
		quote, err := s.quoter.ComputeShippingQuote(ctx, store, shippingapp.QuoteRequest{
			Subtotal: o.SubTotal,
			Weight:   weight,
			Country:  country,
		})
		if err != nil {
			return nil, err
		}
		shippingTotal = quote.Total
	}
	if err := o.SetCharges(shippingTotal, req.Tax); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, pl := range lines {
			if pl.availability == nil {
				continue
			}
			if err := repos.AvailabilityRepo().AdjustQuantity(ctx, pl.availability.ID, -pl.input.Quantity); err != nil {
				return err
			}
		}
		return repos.OrderRepo().Save(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderPlaced(ctx, store.Code, o.Currency)
	s.logger.Info("Order placed",
		zap.String("store", store.Code),
		zap.String("number", o.Number),
		zap.String("total", o.Total.String()))

	r := ToOrderResponse(o)
	return &r, nil
}

// priceLine loads the product, checks it can be sold in country and prices the line
func (s *OrderService) priceLine(ctx context.Context, storeID uuid.UUID, lang, country string, l LineRequest, now time.Time) (*pricedLine, error) {
	p, err := s.productRepo.FindByID(ctx, storeID, l.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsAvailableAt(now) {
		return nil, shared.NewDomainError("NOT_AVAILABLE", fmt.Sprintf("Product %s is not available", p.Sku))
	}

	name := p.Sku
	if d := p.DescriptionFor(lang); d != nil {
		name = d.Name
	}
	pl := &pricedLine{input: order.LineInput{
		ProductID: p.ID,
		Sku:       p.Sku,
		Name:      name,
		Quantity:  l.Quantity,
		UnitPrice: p.Price,
	}}
	if p.Shippable && !p.Virtual {
		pl.weight = p.Weight.Mul(decimal.NewFromInt(int64(l.Quantity)))
	}

	// Products without an availability record are not stock tracked
	pl.availability, err = s.availabilityFor(ctx, p.ID, country)
	if err != nil {
		return nil, err
	}
	if pl.availability != nil {
		if err := pl.availability.CanOrder(l.Quantity, now); err != nil {
			return nil, err
		}
	}
	return pl, nil
}

// availabilityFor picks the record of the delivery country, falling back to the all-regions one
func (s *OrderService) availabilityFor(ctx context.Context, productID uuid.UUID, country string) (*catalog.ProductAvailability, error) {
	list, err := s.stockRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	var found *catalog.ProductAvailability
	for i := range list {
		if !list[i].Matches(country) {
			continue
		}
		if found == nil || list[i].Region != catalog.RegionAll {
			found = &list[i]
		}
	}
	return found, nil
}

// GetByID returns an order of the store
func (s *OrderService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	r := ToOrderResponse(o)
	return &r, nil
}

// GetByNumber returns an order by its public number
func (s *OrderService) GetByNumber(ctx context.Context, storeID uuid.UUID, number string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByNumber(ctx, storeID, number)
	if err != nil {
		return nil, err
	}
	r := ToOrderResponse(o)
	return &r, nil
}

// List returns a page of orders
func (s *OrderService) List(ctx context.Context, criteria order.OrderCriteria) (shared.Paginated[OrderResponse], error) {
	list, total, err := s.orderRepo.List(ctx, criteria)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	items := make([]OrderResponse, 0, len(list))
	for i := range list {
		items = append(items, ToOrderResponse(&list[i]))
	}
	return shared.NewPaginated(items, total, criteria.Page(), criteria.Limit()), nil
}

// ChangeStatus moves an order along the workflow
func (s *OrderService) ChangeStatus(ctx context.Context, store *merchant.MerchantStore, id uuid.UUID, req ChangeStatusRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, store.ID, id)
	if err != nil {
		return nil, err
	}
	previous := o.Status
	if err := o.ChangeStatus(order.Status(strings.ToUpper(req.Status)), req.Comments, req.NotifyCustomer); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publish(ctx, o)

	s.metrics.OrderTransitioned(ctx, store.Code, string(previous), string(o.Status))
	s.logger.Info("Order status changed",
		zap.String("number", o.Number),
		zap.String("from", string(previous)),
		zap.String("to", string(o.Status)))

	r := ToOrderResponse(o)
	return &r, nil
}

func (s *OrderService) publish(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	o.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order event", zap.String("number", o.Number), zap.Error(err))
	}
}

// AddDownload grants a download of a digital file for an order line
func (s *OrderService) AddDownload(ctx context.Context, storeID, orderID uuid.UUID, req AddDownloadRequest) (*DownloadResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if o.ProductByID(req.OrderProductID) == nil {
		return nil, shared.WrapDomainError("NOT_FOUND", "Order line not found", shared.ErrNotFound)
	}
	if err := content.ValidateFileName(req.FileName); err != nil {
		return nil, err
	}
	d, err := order.NewOrderProductDownload(req.OrderProductID, req.FileName)
	if err != nil {
		return nil, err
	}
	if req.MaxDays > 0 {
		d.MaxDays = req.MaxDays
	}
	if req.MaxCount > 0 {
		d.MaxCount = req.MaxCount
	}
	if err := s.downloadRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	r := ToDownloadResponse(d)
	return &r, nil
}

// Downloads lists the download grants of an order
func (s *OrderService) Downloads(ctx context.Context, storeID, orderID uuid.UUID) ([]DownloadResponse, error) {
	list, err := s.downloadRepo.FindByOrderID(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]DownloadResponse, 0, len(list))
	for i := range list {
		out = append(out, ToDownloadResponse(&list[i]))
	}
	return out, nil
}

// Download counts one use of a grant owned by the customer and returns the file.
// Grants of canceled or refunded orders cannot be used.
func (s *OrderService) Download(ctx context.Context, store *merchant.MerchantStore, customerID, downloadID uuid.UUID) (*DownloadedFile, error) {
	if s.files == nil {
		return nil, shared.WrapDomainError("DOWNLOADS_DISABLED", "Downloads are not configured", shared.ErrService)
	}
	d, err := s.downloadRepo.FindByID(ctx, downloadID)
	if err != nil {
		return nil, err
	}
	o, err := s.orderRepo.FindByProductLineID(ctx, store.ID, d.OrderProductID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		// Do not reveal grants of other customers
		return nil, shared.ErrNotFound
	}
	if o.Status == order.StatusCanceled || o.Status == order.StatusRefunded {
		return nil, shared.WrapDomainError("INVALID_STATE", "Order is "+strings.ToLower(string(o.Status)), shared.ErrInvalidState)
	}
	line := o.ProductByID(d.OrderProductID)
	if line == nil {
		return nil, shared.ErrNotFound
	}

	if err := d.Consume(s.now()); err != nil {
		return nil, err
	}
	file, err := s.files.GetFile(ctx, store.Code, content.FileContentTypeProductDigital, line.Sku, d.OrderProductFilename)
	if err != nil {
		return nil, err
	}
	if err := s.downloadRepo.Consume(ctx, d.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Order download served",
		zap.String("number", o.Number),
		zap.String("file", d.OrderProductFilename),
		zap.Int("count", d.DownloadCount))
	return &DownloadedFile{FileName: file.FileName, MimeType: file.MimeType, Body: file.Body}, nil
}

// PurgeExpiredDownloads deletes every grant past its validity window
func (s *OrderService) PurgeExpiredDownloads(ctx context.Context) (int64, error) {
	n, err := s.downloadRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Expired order downloads purged", zap.Int64("count", n))
	}
	return n, nil
}

// Invoice renders the invoice PDF of an order
func (s *OrderService) Invoice(ctx context.Context, store *merchant.MerchantStore, id uuid.UUID) ([]byte, string, error) {
	if s.invoices == nil {
		return nil, "", shared.WrapDomainError("PRINTING_DISABLED", "Invoice printing is not configured", shared.ErrService)
	}
	o, err := s.orderRepo.FindByID(ctx, store.ID, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.invoices.RenderPDF(ctx, invoiceData(store, o))
	if err != nil {
		var renderErr *printing.RenderError
		if errors.As(err, &renderErr) && renderErr.Code == printing.ErrCodeDisabled {
			return nil, "", shared.WrapDomainError("PRINTING_DISABLED", "Invoice printing is not configured", shared.ErrService)
		}
		return nil, "", shared.WrapDomainError("INVOICE_FAILED", "Failed to render invoice", errors.Join(shared.ErrIntegration, err))
	}
	return pdf, "invoice-" + o.Number + ".pdf", nil
}

func invoiceData(store *merchant.MerchantStore, o *order.Order) *printing.InvoiceData {
	lines := make([]printing.InvoiceLine, 0, len(o.Products))
	for _, p := range o.Products {
		lines = append(lines, printing.InvoiceLine{
			Sku:       p.Sku,
			Name:      p.Name,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			Total:     p.LineTotal(),
		})
	}
	return &printing.InvoiceData{
		StoreName:     store.Name,
		StoreEmail:    store.Email,
		StoreAddress:  store.Address,
		OrderNumber:   o.Number,
		DatePurchased: o.DatePurchased,
		Status:        string(o.Status),
		Currency:      o.Currency,
		Language:      o.Language,
		CustomerEmail: o.CustomerEmail,
		Billing:       o.Billing,
		Delivery:      o.Delivery,
		Lines:         lines,
		SubTotal:      o.SubTotal,
		Shipping:      o.ShippingTotal,
		Tax:           o.TaxTotal,
		Total:         o.Total,
	}
}
