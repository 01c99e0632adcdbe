package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"sports_booking/internal/usecase/interfaces"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const DefaultAgendaTimeout = 10 * time.Second

var tracer = otel.Tracer("sports_booking/internal/infrastructure/scheduling")

type lockResponse struct {
	LockID    json.RawMessage `json:"lock_id"`
	ExpiresAt string          `json:"expires_at"`
}

// AgendaGateway is the client of the agenda service, the authority over slot
// availability. Every call is a POST with query parameters.
type AgendaGateway struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

var _ interfaces.ISlotLockGateway = (*AgendaGateway)(nil)

func NewAgendaGateway(baseURL string, timeout time.Duration) *AgendaGateway {
	if timeout <= 0 {
		timeout = DefaultAgendaTimeout
	}
	return &AgendaGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (g *AgendaGateway) Acquire(ctx context.Context, courtID, slotID, bookingID int64, ttl time.Duration) (_ string, err error) {
	ctx, span := g.start(ctx, "agenda.acquire_lock", bookingID)
	defer func() { endSpan(span, err) }()

	log.Printf("[agenda][gateway] acquire start court_id=%d slot_id=%d booking_id=%d ttl=%s", courtID, slotID, bookingID, ttl)
	params := slotParams(courtID, slotID, bookingID)
	params.Set("ttl_seconds", strconv.Itoa(int(ttl.Seconds())))

	body, status, err := g.post(ctx, "/locks", params)
	if err != nil {
		log.Printf("[agenda][gateway] acquire failed booking_id=%d err=%v", bookingID, err)
		return "", fmt.Errorf("%w: %w", interfaces.ErrLockUnavailable, err)
	}
	if !success(status) {
		log.Printf("[agenda][gateway] acquire rejected booking_id=%d http_status=%d", bookingID, status)
		return "", fmt.Errorf("%w: agenda answered %d", interfaces.ErrLockUnavailable, status)
	}

	var out lockResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: invalid lock response: %w", interfaces.ErrLockUnavailable, err)
	}
	lockRef := rawString(out.LockID)
	if lockRef == "" {
		return "", fmt.Errorf("%w: lock response without lock_id", interfaces.ErrLockUnavailable)
	}

	log.Printf("[agenda][gateway] acquire success booking_id=%d lock_ref=%s expires_at=%s", bookingID, lockRef, out.ExpiresAt)
	return lockRef, nil
}

// Release treats a reference the agenda no longer knows (expired or already
// released) as success.
func (g *AgendaGateway) Release(ctx context.Context, lockRef string) (err error) {
	ctx, span := g.start(ctx, "agenda.release_lock", 0)
	span.SetAttributes(attribute.String("lock.ref", lockRef))
	defer func() { endSpan(span, err) }()

	log.Printf("[agenda][gateway] release start lock_ref=%s", lockRef)
	_, status, err := g.post(ctx, "/locks/release", url.Values{"lock_id": {lockRef}})
	if err != nil {
		log.Printf("[agenda][gateway] release failed lock_ref=%s err=%v", lockRef, err)
		return fmt.Errorf("%w: %w", interfaces.ErrLockUnavailable, err)
	}
	switch {
	case success(status):
		log.Printf("[agenda][gateway] release success lock_ref=%s", lockRef)
		return nil
	case status == http.StatusNotFound || status == http.StatusConflict || status == http.StatusGone:
		log.Printf("[agenda][gateway] release no-op lock_ref=%s http_status=%d", lockRef, status)
		return nil
	default:
		log.Printf("[agenda][gateway] release rejected lock_ref=%s http_status=%d", lockRef, status)
		return fmt.Errorf("%w: agenda answered %d", interfaces.ErrLockUnavailable, status)
	}
}

// ConfirmBooked is idempotent: a 409 means the slot is already booked for
// this booking, so a redelivered approval does not fail.
func (g *AgendaGateway) ConfirmBooked(ctx context.Context, courtID, slotID, bookingID int64) error {
	return g.mark(ctx, "/mark-booked", courtID, slotID, bookingID, http.StatusConflict)
}

func (g *AgendaGateway) ConfirmReleased(ctx context.Context, courtID, slotID, bookingID int64) error {
	return g.mark(ctx, "/mark-released", courtID, slotID, bookingID, http.StatusNotFound, http.StatusConflict, http.StatusGone)
}

// mark posts to path; statuses listed in applied mean the change is already
// in place and are treated as success.
func (g *AgendaGateway) mark(ctx context.Context, path string, courtID, slotID, bookingID int64, applied ...int) (err error) {
	ctx, span := g.start(ctx, "agenda"+strings.ReplaceAll(path, "/", "."), bookingID)
	defer func() { endSpan(span, err) }()

	log.Printf("[agenda][gateway] %s start court_id=%d slot_id=%d booking_id=%d", path, courtID, slotID, bookingID)
	_, status, err := g.post(ctx, path, slotParams(courtID, slotID, bookingID))
	if err != nil {
		log.Printf("[agenda][gateway] %s failed booking_id=%d err=%v", path, bookingID, err)
		return fmt.Errorf("%w: %w", interfaces.ErrLockUnavailable, err)
	}
	if slices.Contains(applied, status) {
		log.Printf("[agenda][gateway] %s no-op booking_id=%d http_status=%d", path, bookingID, status)
		return nil
	}
	if !success(status) {
		log.Printf("[agenda][gateway] %s rejected booking_id=%d http_status=%d", path, bookingID, status)
		return fmt.Errorf("%w: agenda answered %d", interfaces.ErrLockUnavailable, status)
	}
	log.Printf("[agenda][gateway] %s success booking_id=%d", path, bookingID)
	return nil
}

func (g *AgendaGateway) post(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, g.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func (g *AgendaGateway) start(ctx context.Context, name string, bookingID int64) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, name)
	if bookingID != 0 {
		span.SetAttributes(attribute.Int64("booking.id", bookingID))
	}
	return ctx, span
}

func slotParams(courtID, slotID, bookingID int64) url.Values {
	return url.Values{
		"court_id":   {strconv.FormatInt(courtID, 10)},
		"slot_id":    {strconv.FormatInt(slotID, 10)},
		"booking_id": {strconv.FormatInt(bookingID, 10)},
	}
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// rawString accepts a JSON string or number.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
