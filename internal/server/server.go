// Package server exposes the chemistry index and attribute data over a small
// JSON API for downstream lookup tools.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clbtools/clbtools/internal/app"
	"github.com/clbtools/clbtools/internal/preset"
	"github.com/clbtools/clbtools/internal/query"
	"github.com/clbtools/clbtools/internal/sheets"
)

type Server struct {
	app    *app.App
	engine *gin.Engine
}

func New(a *app.App) *Server {
	s := &Server{app: a, engine: gin.Default()}
	s.RegisterRoutes(s.engine)
	return s
}

func (s *Server) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/players", s.handlePlayers)
	api.POST("/chemistry", s.handleChemistry)
	api.GET("/freshness", s.handleFreshness)
	api.GET("/attributes", s.handleAttributes)
	api.GET("/attributes/players", s.handleAttributePlayers)
	api.DELETE("/attributes/cache", s.handleClearAttributeCache)
	api.GET("/characters/:name/chemistry", s.handleCharacterChemistry)
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handlePlayers(c *gin.Context) {
	names, err := s.app.ChemistryPlayers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": names})
}

type chemistryRequest struct {
	Players []string `json:"players"`
}

func (s *Server) handleChemistry(c *gin.Context) {
	var req chemistryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.app.QueryChemistry(c.Request.Context(), cleanNames(req.Players))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleFreshness(c *gin.Context) {
	f, ok, err := s.app.Freshness(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": query.ErrIndexMissing.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"checksum":     f.Checksum,
		"rowCount":     f.RowCount,
		"timestamp":    f.Timestamp,
		"lastModified": f.LastModified,
	})
}

func (s *Server) handleAttributes(c *gin.Context) {
	var names []string
	for _, v := range c.QueryArray("name") {
		names = append(names, strings.Split(v, ",")...)
	}
	names = cleanNames(names)
	if len(names) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one name is required"})
		return
	}
	withAverages := c.Query("averages") == "true" || c.Query("averages") == "1"

	views, err := s.app.PlayerAttributes(c.Request.Context(), names, withAverages)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": views})
}

func (s *Server) handleAttributePlayers(c *gin.Context) {
	names, err := s.app.AttributePlayers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": names})
}

func (s *Server) handleClearAttributeCache(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.ClearAttributeCache())
}

func (s *Server) handleCharacterChemistry(c *gin.Context) {
	cc, err := s.app.CharacterChemistry(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cc)
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, query.ErrIndexMissing),
		errors.Is(err, sheets.ErrSheetNotFound),
		errors.Is(err, preset.ErrTrajectoryMissing),
		errors.Is(err, app.ErrCharacterNotFound):
		status = http.StatusNotFound
	default:
		log.Printf("server: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func cleanNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
