// Package api read-only REST API наблюдателя: текущая сессия, таблица
// рекордов, записи прогонов и состояние процесса.
package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/gungeon-sim/internal/logging"
	"github.com/annel0/gungeon-sim/internal/metrics"
	"github.com/annel0/gungeon-sim/internal/middleware"
	"github.com/annel0/gungeon-sim/internal/replay"
	"github.com/annel0/gungeon-sim/internal/storage"
)

// Version версия сервиса в /api/server
const Version = "v0.3.0"

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

// RestServer представляет REST API сервер
type RestServer struct {
	router     *gin.Engine
	httpServer *http.Server
	snapshots  *SnapshotHolder
	scores     storage.ScoreRepo
	stats      *metrics.ProcessStats
	replayDir  string
	port       string
	log        *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port      string                // адрес для запуска сервера, например ":8088"
	Snapshots *SnapshotHolder       // срезы текущей сессии
	Scores    storage.ScoreRepo     // таблица рекордов
	Stats     *metrics.ProcessStats // метрики процесса
	ReplayDir string                // каталог записей прогонов, пусто если запись выключена
	Registry  prometheus.Registerer // регистр HTTP-метрик
	Gatherer  prometheus.Gatherer   // источник для /metrics
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Snapshots == nil {
		config.Snapshots = NewSnapshotHolder()
	}
	if config.Stats == nil {
		config.Stats = metrics.NewProcessStats()
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}

	// Устанавливаем режим релиза для gin
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("spectator_api"))

	loggerMw := middleware.NewRequestLogger()
	router.Use(loggerMw.Handler())

	promMw := middleware.NewPrometheusMiddleware("spectator_api", config.Registry)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	server := &RestServer{
		router:    router,
		snapshots: config.Snapshots,
		scores:    config.Scores,
		stats:     config.Stats,
		replayDir: config.ReplayDir,
		port:      config.Port,
		log:       logging.GetAPILogger(),
	}
	server.httpServer = &http.Server{
		Addr:              config.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	server.setupRoutes()
	return server
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// Middleware для CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	api := rs.router.Group("/api")
	{
		api.GET("/session", rs.handleSession)
		api.GET("/session/objectives", rs.handleObjectives)
		api.GET("/scores", rs.handleTopScores)
		api.GET("/scores/:id", rs.handleScore)
		api.GET("/replays/:id", rs.handleReplay)
		api.GET("/server", rs.handleServerInfo)
	}

	rs.router.GET("/health", rs.handleHealth)
}

// Handler возвращает http.Handler роутера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

func (rs *RestServer) handleSession(c *gin.Context) {
	snap, ok := rs.snapshots.Load()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{
			Success: false,
			Message: "Сессия еще не запущена",
		})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (rs *RestServer) handleObjectives(c *gin.Context) {
	snap, ok := rs.snapshots.Load()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{
			Success: false,
			Message: "Сессия еще не запущена",
		})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Цели сессии",
		Data:    snap.Objectives,
	})
}

func (rs *RestServer) handleTopScores(c *gin.Context) {
	if rs.scores == nil {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{Success: false, Message: "Хранилище рекордов не настроено"})
		return
	}

	limit := defaultTopLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxTopLimit {
			c.JSON(http.StatusBadRequest, GenericResponse{
				Success: false,
				Message: "limit должен быть числом от 1 до " + strconv.Itoa(maxTopLimit),
			})
			return
		}
		limit = n
	}

	top, err := rs.scores.Top(c.Request.Context(), limit)
	if err != nil {
		rs.log.Error("❌ Ошибка чтения рекордов: %v", err)
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: "Внутренняя ошибка сервера"})
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Таблица рекордов",
		Data:    top,
	})
}

func (rs *RestServer) handleScore(c *gin.Context) {
	if rs.scores == nil {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{Success: false, Message: "Хранилище рекордов не настроено"})
		return
	}

	s, err := rs.scores.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: "Результат не найден"})
		return
	}
	if err != nil {
		rs.log.Error("❌ Ошибка чтения результата %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: "Внутренняя ошибка сервера"})
		return
	}

	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Результат сессии", Data: s})
}

// handleReplay отдает кадры записи. Параметры from и limit задают окно кадров.
func (rs *RestServer) handleReplay(c *gin.Context) {
	if rs.replayDir == "" {
		c.JSON(http.StatusServiceUnavailable, GenericResponse{Success: false, Message: "Запись прогонов выключена"})
		return
	}

	id := filepath.Base(c.Param("id"))
	path := filepath.Join(rs.replayDir, id+replay.Extension)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: "Запись не найдена"})
		return
	}

	from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if from < 0 || limit <= 0 {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Некорректное окно кадров"})
		return
	}

	rd, err := replay.Open(path)
	if err != nil {
		rs.log.Error("❌ Ошибка открытия записи %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: "Внутренняя ошибка сервера"})
		return
	}
	defer rd.Close()

	frames, err := rd.ReadAll()
	if err != nil {
		rs.log.Warn("⚠️ Запись %s прочитана частично: %v", id, err)
	}

	total := len(frames)
	if from > total {
		from = total
	}
	end := min(from+limit, total)

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Кадры записи",
		Data: gin.H{
			"total":  total,
			"from":   from,
			"frames": frames[from:end],
		},
	})
}

func (rs *RestServer) handleServerInfo(c *gin.Context) {
	info := rs.stats.Info()
	info["version"] = Version
	info["name"] = "Gungeon Simulation Server"
	info["status"] = "running"

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data:    info,
	})
}

func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// Start запускает HTTP сервер и блокируется до остановки
func (rs *RestServer) Start() error {
	rs.log.Info("🌐 REST API слушает %s", rs.port)

	err := rs.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop останавливает сервер с ожиданием активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.httpServer.Shutdown(ctx)
}
