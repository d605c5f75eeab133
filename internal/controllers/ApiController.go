package controllers

import (
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"chd/internal/models"
	"chd/internal/providers"
	"chd/internal/services"
)

const maxRequestBodySize = 64 << 10 // 64 KB

type ApiController struct {
	logger  providers.Logger
	service services.ProgressionServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.ProgressionServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func getLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "leaderboard", func() (any, error) {
		return ac.service.Leaderboard(), nil
	})
}

func (ac *ApiController) GetUser(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	user, ok := ac.service.GetUser(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	gson, err := json.Marshal(user)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetActivities(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	limit := getLimit(r)
	ac.serveFromCacheOrCompute(w, "activities:"+id+":"+strconv.Itoa(limit), func() (any, error) {
		return ac.service.Activities(id, limit), nil
	})
}

func (ac *ApiController) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	limit := getLimit(r)
	ac.serveFromCacheOrCompute(w, "history:"+id+":"+strconv.Itoa(limit), func() (any, error) {
		return ac.service.History(id, limit), nil
	})
}

func (ac *ApiController) GetBadges(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	ac.serveFromCacheOrCompute(w, "badges:"+id, func() (any, error) {
		return ac.service.Badges(id), nil
	})
}

type createUserRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

func (ac *ApiController) CreateUser(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.DisplayName == "" {
		http.Error(w, "Bad Request: missing display_name", http.StatusBadRequest)
		return
	}

	user, err := ac.service.CreateUser(req.ID, req.DisplayName, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserExists) {
			http.Error(w, "Conflict", http.StatusConflict)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.logger.Infof(providers.TypePost, "Created user %s", user.ID)

	gson, err := json.Marshal(user)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(gson)
}

type linkAccountRequest struct {
	Provider string `json:"provider"`
	Login    string `json:"login"`
	UserID   string `json:"user_id"`
}

func (ac *ApiController) LinkAccount(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req linkAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.Provider == "" || req.Login == "" || req.UserID == "" {
		http.Error(w, "Bad Request: provider, login and user_id are required", http.StatusBadRequest)
		return
	}

	if err := ac.service.LinkAccount(req.Provider, req.Login, req.UserID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.logger.Infof(providers.TypePost, "Linked %s/%s to user %s", req.Provider, req.Login, req.UserID)
	w.WriteHeader(http.StatusNoContent)
}
