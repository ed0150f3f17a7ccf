package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"mediflow-service/internal/app/config"
	"mediflow-service/internal/app/contracts"
	"mediflow-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

var (
	sessionPolicyServiceInstance contracts.SessionPolicyService
	onceSessionPolicyService     sync.Once
)

type sessionPolicyService struct {
	BaseUrl         string
	PropertyName    string
	DefaultMinutes  int
	CacheTTL        time.Duration
	RedisRepository contracts.RedisRepository
	Log             *zap.Logger
}

// propertyResponse is the scalar configuration payload the policy
// endpoint returns. The value arrives as a string; historical backends
// have served it both quoted and bare.
type propertyResponse struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func NewSessionPolicyService(internalConfig *config.InternalConfig, redisRepository contracts.RedisRepository, logger *zap.Logger) contracts.SessionPolicyService {
	onceSessionPolicyService.Do(func() {
		service := &sessionPolicyService{
			BaseUrl:         internalConfig.Policy.BaseUrl,
			PropertyName:    internalConfig.Policy.DurationPropertyName,
			DefaultMinutes:  internalConfig.Session.DefaultDurationMinutes,
			CacheTTL:        time.Duration(internalConfig.Policy.CacheTTLInSeconds) * time.Second,
			RedisRepository: redisRepository,
			Log:             logger,
		}
		sessionPolicyServiceInstance = service
	})
	return sessionPolicyServiceInstance
}

// GetSessionDurationMinutes resolves the session window length. Cache
// and endpoint failures both degrade to the canonical default; the
// resolution flow must never stall on policy lookup.
func (svc *sessionPolicyService) GetSessionDurationMinutes(ctx context.Context) int {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if minutes, ok := svc.readCache(ctx); ok {
		return minutes
	}

	minutes, err := svc.fetchRemote(ctx)
	if err != nil {
		svc.Log.Error("sessionPolicyService.GetSessionDurationMinutes falling back to default",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingDurationMinKey, svc.DefaultMinutes),
			zap.Error(err),
		)
		return svc.DefaultMinutes
	}
	if minutes <= 0 {
		svc.Log.Warn("sessionPolicyService.GetSessionDurationMinutes non-positive policy value, using default",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingDurationMinKey, svc.DefaultMinutes),
		)
		return svc.DefaultMinutes
	}

	svc.writeCache(ctx, minutes)
	return minutes
}

func (svc *sessionPolicyService) readCache(ctx context.Context) (int, bool) {
	if svc.RedisRepository == nil {
		return 0, false
	}
	cached, err := svc.RedisRepository.Get(ctx, constvars.SessionPolicyCacheKey)
	if err != nil || cached == "" {
		return 0, false
	}
	minutes, err := strconv.Atoi(cached)
	if err != nil || minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

func (svc *sessionPolicyService) writeCache(ctx context.Context, minutes int) {
	if svc.RedisRepository == nil {
		return
	}
	// Best effort: a cache write failure must not fail the resolution.
	if err := svc.RedisRepository.Set(ctx, constvars.SessionPolicyCacheKey, minutes, svc.CacheTTL); err != nil {
		svc.Log.Warn("sessionPolicyService.writeCache failed",
			zap.Error(err),
		)
	}
}

func (svc *sessionPolicyService) fetchRemote(ctx context.Context) (int, error) {
	url := fmt.Sprintf("%s?name=%s", svc.BaseUrl, svc.PropertyName)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return 0, fmt.Errorf("policy endpoint returned status %d", resp.StatusCode)
	}

	var property propertyResponse
	if err := json.NewDecoder(resp.Body).Decode(&property); err != nil {
		return 0, err
	}

	raw := string(property.Value)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return minutes, nil
}
