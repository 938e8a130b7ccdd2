package moveapi

import (
	"context"
	"mime"
	"strconv"
	"strings"
	"time"

	"fleetmove/internal/domain"
	"fleetmove/internal/domain/models"

	"github.com/go-resty/resty/v2"
)

// List endpoints relative to the API base URL.
const (
	TransportRequestsEndpoint = "/move/transport-requests"
	VehiclesEndpoint          = "/move/vehicles"
)

type ctxKey struct{}

// WithRequestID returns a context whose outbound calls carry X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Token is sent as a bearer token when set.
	Token string
}

// Client talks to the transport request API over HTTP.
type Client struct {
	http *resty.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetError(&ErrorResponse{})
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}
	return &Client{http: rc}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if id := requestIDFrom(ctx); id != "" {
		r.SetHeader("X-Request-ID", id)
	}
	return r
}

// do runs a prepared request and folds transport and HTTP failures into APIError.
func do(r *resty.Request, method, path string) (*resty.Response, error) {
	resp, err := r.Execute(method, path)
	if err != nil {
		return nil, transportError(err)
	}
	if resp.IsError() {
		return resp, errorFromResponse(resp)
	}
	return resp, nil
}

// FetchPage GETs one page of T from endpoint with the list parameters encoded
// as page, limit, sort, search and filter[col].
func FetchPage[T any](ctx context.Context, c *Client, endpoint string, p domain.PageParams) (domain.Page[T], error) {
	var out domain.Page[T]
	r := c.request(ctx).SetQueryParamsFromValues(p.Values()).SetResult(&out)
	if _, err := do(r, resty.MethodGet, endpoint); err != nil {
		return domain.Page[T]{}, err
	}
	if out.Records == nil {
		out.Records = []T{}
	}
	return out, nil
}

func requestPath(id int64, suffix ...string) string {
	p := TransportRequestsEndpoint + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (c *Client) ListTransportRequests(ctx context.Context, p domain.PageParams) (domain.Page[models.TransportRequest], error) {
	return FetchPage[models.TransportRequest](ctx, c, TransportRequestsEndpoint, p)
}

func (c *Client) GetTransportRequest(ctx context.Context, id int64) (models.TransportRequest, error) {
	var out models.TransportRequest
	_, err := do(c.request(ctx).SetResult(&out), resty.MethodGet, requestPath(id))
	return out, err
}

// CreateTransportRequest POSTs the 15 form fields and returns the stored entity.
func (c *Client) CreateTransportRequest(ctx context.Context, in models.TransportRequestInput) (models.TransportRequest, error) {
	var out models.TransportRequest
	_, err := do(c.request(ctx).SetBody(in).SetResult(&out), resty.MethodPost, TransportRequestsEndpoint)
	return out, err
}

// UpdateTransportRequest PATCHes every field of id with in.
func (c *Client) UpdateTransportRequest(ctx context.Context, id int64, in models.TransportRequestInput) (models.TransportRequest, error) {
	var out models.TransportRequest
	_, err := do(c.request(ctx).SetBody(in).SetResult(&out), resty.MethodPatch, requestPath(id))
	return out, err
}

func (c *Client) DeleteTransportRequest(ctx context.Context, id int64) error {
	_, err := do(c.request(ctx), resty.MethodDelete, requestPath(id))
	return err
}

func vehiclePath(id int64) string {
	return VehiclesEndpoint + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) ListVehicles(ctx context.Context, p domain.PageParams) (domain.Page[models.Vehicle], error) {
	return FetchPage[models.Vehicle](ctx, c, VehiclesEndpoint, p)
}

func (c *Client) CreateVehicle(ctx context.Context, in models.VehicleInput) (models.Vehicle, error) {
	var out models.Vehicle
	_, err := do(c.request(ctx).SetBody(in).SetResult(&out), resty.MethodPost, VehiclesEndpoint)
	return out, err
}

func (c *Client) UpdateVehicle(ctx context.Context, id int64, in models.VehicleInput) (models.Vehicle, error) {
	var out models.Vehicle
	_, err := do(c.request(ctx).SetBody(in).SetResult(&out), resty.MethodPatch, vehiclePath(id))
	return out, err
}

func (c *Client) DeleteVehicle(ctx context.Context, id int64) error {
	_, err := do(c.request(ctx), resty.MethodDelete, vehiclePath(id))
	return err
}

func (c *Client) DriverBoard(ctx context.Context, driverID int64, date string) (models.DriverBoard, error) {
	var out models.DriverBoard
	r := c.request(ctx).SetResult(&out)
	if date != "" {
		r.SetQueryParam("date", date)
	}
	_, err := do(r, resty.MethodGet, "/move/drivers/"+strconv.FormatInt(driverID, 10)+"/board")
	return out, err
}

func (c *Client) StartTrip(ctx context.Context, id int64, in models.TripActionInput) (models.TransportRequest, error) {
	var out models.TransportRequest
	_, err := do(c.request(ctx).SetBody(in).SetResult(&out), resty.MethodPost, requestPath(id, "start"))
	return out, err
}

func (c *Client) ArriveTrip(ctx context.Context, id int64, in models.TripActionInput) (models.TransportRequest, error) {
	var out models.TransportRequest
	_, err := do(c.request(ctx).SetBody(in).SetResult(&out), resty.MethodPost, requestPath(id, "arrive"))
	return out, err
}

// TripTicket downloads the PDF of id with the filename the server suggested.
func (c *Client) TripTicket(ctx context.Context, id int64) ([]byte, string, error) {
	r := c.request(ctx).SetHeader("Accept", "application/pdf")
	resp, err := do(r, resty.MethodGet, requestPath(id, "trip-ticket"))
	if err != nil {
		return nil, "", err
	}
	filename := "trip-ticket-" + strconv.FormatInt(id, 10) + ".pdf"
	if _, params, perr := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); perr == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return resp.Body(), filename, nil
}
