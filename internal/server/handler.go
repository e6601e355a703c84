package server

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"brawl-tracker/internal/domain"
	"brawl-tracker/internal/middleware"
	"brawl-tracker/internal/repository"
	"brawl-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// timeLayout is the ISO-8601 layout for battle_time path segments and the
// start_date/end_date query parameters, e.g. "2023-05-06T15:30:00".
const timeLayout = "2006-01-02T15:04:05"

type BattleServer struct {
	battleSvc *service.BattleService
	statsSvc  *service.StatsService
	db        *sql.DB
	logger    zerolog.Logger
}

func NewBattleServer(battleSvc *service.BattleService, statsSvc *service.StatsService, db *sql.DB, logger zerolog.Logger) *BattleServer {
	return &BattleServer{battleSvc: battleSvc, statsSvc: statsSvc, db: db, logger: logger}
}

func (s *BattleServer) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", s.health)

	router.GET("/battle-data", s.listBattleData)
	router.GET("/battle-data/:player_tag", s.listBattleDataByPlayer)
	router.GET("/battle-data/:player_tag/:battle_time/:brawler_id", s.getBattleData)

	router.GET("/battle-statistics", s.battleStatistics)
	router.GET("/trophy-progress", s.trophyProgress)
	router.GET("/brawler-statistics", s.brawlerStatistics)
	router.GET("/gamemode-statistics", s.gameModeStatistics)
}

func (s *BattleServer) health(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *BattleServer) listBattleData(c *gin.Context) {
	records, err := s.battleSvc.ListAll(c.Request.Context())
	if err != nil {
		s.respondError(c, err, "failed to read battle data")
		return
	}
	c.JSON(http.StatusOK, toBattleRecordList(records))
}

func (s *BattleServer) listBattleDataByPlayer(c *gin.Context) {
	playerTag := c.Param("player_tag")

	records, err := s.battleSvc.ListByPlayer(c.Request.Context(), playerTag)
	if err != nil {
		s.respondError(c, err, fmt.Sprintf("no battle data found for player %s", playerTag))
		return
	}
	c.JSON(http.StatusOK, toBattleRecordList(records))
}

func (s *BattleServer) getBattleData(c *gin.Context) {
	playerTag := c.Param("player_tag")

	battleTime, err := time.ParseInLocation(timeLayout, c.Param("battle_time"), time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "battle_time must be an ISO timestamp like 2023-05-06T15:30:00"})
		return
	}
	brawlerID, err := strconv.Atoi(c.Param("brawler_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "brawler_id must be an integer"})
		return
	}

	record, err := s.battleSvc.Get(c.Request.Context(), playerTag, battleTime, brawlerID)
	if err != nil {
		s.respondError(c, err, "no battle data found for these parameters")
		return
	}
	c.JSON(http.StatusOK, toBattleRecordResponse(*record))
}

func (s *BattleServer) battleStatistics(c *gin.Context) {
	filter, ok := s.parseFilter(c)
	if !ok {
		return
	}

	stats, err := s.statsSvc.OverallStatistics(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err, "no battle data found for the given filters")
		return
	}
	c.JSON(http.StatusOK, toBattleStatisticsResponse(stats))
}

func (s *BattleServer) trophyProgress(c *gin.Context) {
	filter, ok := s.parseFilter(c)
	if !ok {
		return
	}

	progress, err := s.statsSvc.TrophyProgress(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err, "no battle data found for the given filters")
		return
	}
	c.JSON(http.StatusOK, toTrophyProgressResponse(progress))
}

func (s *BattleServer) brawlerStatistics(c *gin.Context) {
	filter, ok := s.parseFilter(c)
	if !ok {
		return
	}

	stats, err := s.statsSvc.BrawlerStatistics(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err, "no battle data found for the given filters")
		return
	}
	c.JSON(http.StatusOK, toBrawlerStatisticsResponse(stats))
}

func (s *BattleServer) gameModeStatistics(c *gin.Context) {
	filter, ok := s.parseFilter(c)
	if !ok {
		return
	}

	stats, err := s.statsSvc.GameModeStatistics(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err, "no battle data found for the given filters")
		return
	}
	c.JSON(http.StatusOK, toGameModeStatisticsResponse(stats))
}

// parseFilter reads the optional player_tag/start_date/end_date query
// parameters. On a malformed timestamp it writes a 400 and returns ok=false.
func (s *BattleServer) parseFilter(c *gin.Context) (repository.BattleFilter, bool) {
	filter := repository.BattleFilter{PlayerTag: c.Query("player_tag")}

	for _, param := range []struct {
		name string
		dest **time.Time
	}{
		{"start_date", &filter.StartDate},
		{"end_date", &filter.EndDate},
	} {
		value := c.Query(param.name)
		if value == "" {
			continue
		}
		t, err := time.ParseInLocation(timeLayout, value, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"detail": fmt.Sprintf("%s must be an ISO timestamp like 2023-05-06T15:30:00", param.name),
			})
			return repository.BattleFilter{}, false
		}
		*param.dest = &t
	}
	return filter, true
}

func (s *BattleServer) respondError(c *gin.Context, err error, notFoundDetail string) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": notFoundDetail})
		return
	}
	s.logger.Error().
		Err(err).
		Str("request_id", middleware.GetRequestID(c)).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}
