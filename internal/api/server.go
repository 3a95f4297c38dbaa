// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package api is the HTTP interface of the reel generator.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/services"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/trends"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/workflow"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

// ReelHistory is the read side of the BigQuery reel history.
type ReelHistory interface {
	List(ctx context.Context, limit int) ([]*model.ReelRecord, error)
	Get(ctx context.Context, id string) (*model.ReelRecord, error)
	Stats(ctx context.Context) ([]*services.StyleStats, error)
	SignedURL(ctx context.Context, rec *model.ReelRecord, expires time.Duration) (string, error)
}

// Server holds what the handlers need. History may be nil, which leaves
// the /api/v1 routes out.
type Server struct {
	Config    *cloud.Config
	Generator workflow.Generator
	Analyzer  *trends.Analyzer
	Workspace *services.Workspace
	History   ReelHistory
}

// NewRouter builds the gin engine serving s.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(s.Config.Application.Name))
	r.Use(cors.Default())
	if s.Config.Server.MaxUploadMB > 0 {
		r.MaxMultipartMemory = s.Config.Server.MaxUploadMB << 20
	}

	limiter := rate.NewLimiter(rate.Limit(s.Config.Server.GenerateRatePerSec), max(s.Config.Server.GenerateBurst, 1))
	if s.Config.Server.GenerateRatePerSec <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "AI Reel Generator API", "version": Version})
	})
	r.POST("/generate-reel", RateLimit(limiter), s.generateReel)
	r.GET("/trends", s.getTrends)
	r.GET("/styles", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"styles": model.Styles()})
	})
	r.DELETE("/cleanup", s.cleanup)

	r.Static("/outputs", s.Config.Storage.OutputDir)
	if s.Config.Storage.StaticDir != "" {
		r.Static("/static", s.Config.Storage.StaticDir)
	}

	if s.History != nil {
		apiV1 := r.Group("/api/v1")
		{
			ReelRouter(apiV1, s.History)
			Dashboard(apiV1, s.History)
		}
	}
	return r
}

func detail(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"detail": err.Error()})
}

func (s *Server) getTrends(c *gin.Context) {
	var (
		data model.TrendingData
		err  error
	)
	if style := c.Query("style"); style != "" {
		st, perr := model.ParseStyle(style)
		if perr != nil {
			detail(c, http.StatusBadRequest, perr)
			return
		}
		data, err = s.Analyzer.ForStyle(c.Request.Context(), st)
	} else {
		data, err = s.Analyzer.Get(c.Request.Context())
	}
	if err != nil {
		detail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) cleanup(c *gin.Context) {
	removed, err := s.Workspace.Cleanup()
	if err != nil {
		detail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cleanup completed", "removed": removed})
}
