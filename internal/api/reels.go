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

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/services"
)

// ReelRouter sets up the reel history routes.
func ReelRouter(r *gin.RouterGroup, history ReelHistory) {
	reels := r.Group("/reels")
	{
		reels.GET("", func(c *gin.Context) {
			limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultListLimit)))
			if err != nil {
				detail(c, http.StatusBadRequest, err)
				return
			}
			out, err := history.List(c.Request.Context(), limit)
			if err != nil {
				detail(c, http.StatusInternalServerError, err)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		reels.GET("/:id", func(c *gin.Context) {
			out, err := history.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				detail(c, statusOf(err), err)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		reels.GET("/:id/stream", func(c *gin.Context) {
			rec, err := history.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				detail(c, statusOf(err), err)
				return
			}
			u, err := history.SignedURL(c.Request.Context(), rec, services.DefaultURLExpiry)
			if err != nil {
				detail(c, statusOf(err), err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": u})
		})
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrReelNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotPublished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
