// Copyright 2025 Truby AI, LLC
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

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/core/store"
	"github.com/trubyai/screenplay-search/internal/telemetry"
	"github.com/trubyai/screenplay-search/internal/tmdb"
)

func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config.Application.Name)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	defer state.clients.Close()
	slog.Info("Initialized State")

	r := gin.Default()
	r.Use(otelgin.Middleware("screenplay-search-server"))
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		ScreenplayRouter(apiV1)
		SceneSearchRouter(apiV1)
		MovieRouter(apiV1)
		FileUpload(apiV1)
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready on port 8080")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}

// ScreenplayRouter sets up ingestion and scene retrieval routes.
func ScreenplayRouter(r *gin.RouterGroup) {
	screenplays := r.Group("/screenplays")
	{
		screenplays.POST("", func(c *gin.Context) {
			var req model.IngestRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			screenplay, scenes, err := state.ingestWorkflow.Ingest(c.Request.Context(), &req)
			switch {
			case err == nil:
			case errors.Is(err, store.ErrDuplicateMovie):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			case errors.Is(err, tmdb.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			default:
				slog.ErrorContext(c.Request.Context(), "screenplay ingestion failed", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}

			c.JSON(http.StatusCreated, gin.H{
				"screenplay": screenplay,
				"scenes":     scenes,
			})
		})

		screenplays.GET("/:id", func(c *gin.Context) {
			id, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				c.Status(http.StatusBadRequest)
				return
			}
			out, err := state.screenplayService.GetScreenplay(c.Request.Context(), id)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		screenplays.DELETE("/:id", func(c *gin.Context) {
			id, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				c.Status(http.StatusBadRequest)
				return
			}
			if err := state.screenplayService.DeleteScreenplay(c.Request.Context(), id); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					c.Status(http.StatusNotFound)
					return
				}
				slog.ErrorContext(c.Request.Context(), "screenplay delete failed", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.Status(http.StatusNoContent)
		})

		screenplays.GET("/:id/scenes", func(c *gin.Context) {
			id, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				c.Status(http.StatusBadRequest)
				return
			}
			scenes, err := state.screenplayService.ListScenes(c.Request.Context(), id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					c.Status(http.StatusNotFound)
					return
				}
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, scenes)
		})
	}
}

// SceneSearchRouter sets up the semantic scene search route.
func SceneSearchRouter(r *gin.RouterGroup) {
	scenes := r.Group("/scenes")
	{
		scenes.GET("", func(c *gin.Context) {
			query := c.Query("s")
			// A missing or unparseable count falls through to the configured
			// search default.
			count, err := strconv.Atoi(c.DefaultQuery("count", "0"))
			if err != nil {
				count = 0
			}
			if len(query) == 0 {
				c.Status(http.StatusBadRequest)
				return
			}
			matches, err := state.searchService.FindScenes(c.Request.Context(), query, count)
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "scene search failed", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, matches)
		})

		scenes.GET("/:document_id", func(c *gin.Context) {
			doc, err := state.screenplayService.GetSceneDocument(c.Request.Context(), c.Param("document_id"))
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					c.Status(http.StatusNotFound)
					return
				}
				slog.ErrorContext(c.Request.Context(), "scene document fetch failed", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, doc)
		})
	}
}

// MovieRouter sets up movie metadata lookup routes.
func MovieRouter(r *gin.RouterGroup) {
	movies := r.Group("/movies")
	{
		movies.GET("/:tmdb_id", func(c *gin.Context) {
			tmdbID, err := strconv.ParseInt(c.Param("tmdb_id"), 10, 64)
			if err != nil {
				c.Status(http.StatusBadRequest)
				return
			}
			out, err := state.screenplayService.GetMovieByTMDB(c.Request.Context(), tmdbID)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, out)
		})
	}
}

// FileUpload sets up the route for uploading screenplay files. Uploaded
// files land in the configured uploads directory under a fresh name; the
// returned paths feed the ingestion endpoint.
func FileUpload(r *gin.RouterGroup) {
	upload := r.Group("/uploads")
	{
		upload.POST("", func(c *gin.Context) {
			form, err := c.MultipartForm()
			if err != nil {
				c.String(http.StatusBadRequest, "get form err: %s", err.Error())
				return
			}
			files := form.File["files"]
			saved := make([]string, 0, len(files))

			for _, file := range files {
				name := uuid.NewString() + filepath.Ext(file.Filename)
				localPath := filepath.Join(state.config.Application.UploadsDir, name)
				if err := c.SaveUploadedFile(file, localPath); err != nil {
					c.String(http.StatusInternalServerError, "upload file err: %s", err.Error())
					return
				}
				saved = append(saved, localPath)
			}
			c.JSON(http.StatusOK, gin.H{"files": saved})
		})
	}
}
