package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/haroldrospa/Cobroapp-sub000/internal/dto"
	"github.com/haroldrospa/Cobroapp-sub000/internal/handler"
	"github.com/haroldrospa/Cobroapp-sub000/internal/middleware"
	"github.com/haroldrospa/Cobroapp-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubSessionService returns canned results so the tests can focus on the
// HTTP mapping of the error taxonomy.
type stubSessionService struct {
	openErr   error
	closeErr  error
	active    *dto.SessionResponse
	activeErr error
}

func (s *stubSessionService) Open(_ context.Context, _ uuid.UUID, _ dto.OpenDrawerRequest) (*dto.SessionResponse, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return &dto.SessionResponse{ID: uuid.NewString(), Status: "open"}, nil
}

func (s *stubSessionService) Close(_ context.Context, _ uuid.UUID, _ dto.CloseDrawerRequest) (*dto.CloseResponse, error) {
	if s.closeErr != nil {
		return nil, s.closeErr
	}
	return &dto.CloseResponse{}, nil
}

func (s *stubSessionService) Active(_ context.Context, _ uuid.UUID) (*dto.SessionResponse, error) {
	return s.active, s.activeErr
}

func (s *stubSessionService) Report(_ context.Context, _ uuid.UUID) (*dto.ReportResponse, error) {
	return &dto.ReportResponse{}, nil
}

func (s *stubSessionService) History(_ context.Context, _ uuid.UUID, _, _ int) ([]dto.HistoryRow, error) {
	return nil, nil
}

type stubMovementService struct {
	recordErr error
}

func (s *stubMovementService) Record(_ context.Context, _ uuid.UUID, _ dto.MovementRequest) (*dto.MovementResponse, error) {
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	return &dto.MovementResponse{}, nil
}

func (s *stubMovementService) ListForWindow(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]dto.MovementResponse, error) {
	return nil, nil
}

func newTestRouter(sessions service.SessionService, movements service.MovementService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Inject claims the way JWTAuth would.
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{
			UserID:   uuid.NewString(),
			Username: "tester",
			Role:     "cashier",
		})
	})
	h := handler.NewDrawerHandler(sessions, movements)
	r.POST("/v1/drawer/open", h.Open)
	r.POST("/v1/drawer/close", h.Close)
	r.POST("/v1/drawer/movement", h.RecordMovement)
	r.GET("/v1/drawer/active", h.GetActive)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOpenConflictMapsTo409(t *testing.T) {
	r := newTestRouter(&stubSessionService{openErr: service.ErrSessionConflict}, &stubMovementService{})

	w := doJSON(r, http.MethodPost, "/v1/drawer/open",
		`{"store_id":"`+uuid.NewString()+`","initial_cash":100}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOpenCreatedOnSuccess(t *testing.T) {
	r := newTestRouter(&stubSessionService{}, &stubMovementService{})

	w := doJSON(r, http.MethodPost, "/v1/drawer/open",
		`{"store_id":"`+uuid.NewString()+`","initial_cash":100}`)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCloseOnClosedSessionMapsTo409(t *testing.T) {
	r := newTestRouter(&stubSessionService{closeErr: service.ErrSessionNotOpen}, &stubMovementService{})

	w := doJSON(r, http.MethodPost, "/v1/drawer/close",
		`{"session_id":"`+uuid.NewString()+`","actual_cash":1550}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMovementInvalidAmountMapsTo400(t *testing.T) {
	r := newTestRouter(&stubSessionService{}, &stubMovementService{recordErr: service.ErrInvalidAmount})

	w := doJSON(r, http.MethodPost, "/v1/drawer/movement",
		`{"store_id":"`+uuid.NewString()+`","type":"deposit","amount":1,"reason":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchemaUnavailableMapsTo503(t *testing.T) {
	r := newTestRouter(&stubSessionService{openErr: service.ErrSchemaUnavailable}, &stubMovementService{})

	w := doJSON(r, http.MethodPost, "/v1/drawer/open",
		`{"store_id":"`+uuid.NewString()+`","initial_cash":100}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestActiveReturns404WhenNoSession(t *testing.T) {
	r := newTestRouter(&stubSessionService{}, &stubMovementService{})

	w := doJSON(r, http.MethodGet, "/v1/drawer/active?store_id="+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMalformedJSONRejected(t *testing.T) {
	r := newTestRouter(&stubSessionService{}, &stubMovementService{})

	w := doJSON(r, http.MethodPost, "/v1/drawer/open", `{"store_id":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidationFailureReturns422(t *testing.T) {
	r := newTestRouter(&stubSessionService{}, &stubMovementService{})

	// type must be deposit|withdrawal
	w := doJSON(r, http.MethodPost, "/v1/drawer/movement",
		`{"store_id":"`+uuid.NewString()+`","type":"loan","amount":1,"reason":"x"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
