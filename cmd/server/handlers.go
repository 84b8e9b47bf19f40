package main

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/modeltrust/registry/internal/artifact"
	"github.com/modeltrust/registry/internal/cache"
	apperrors "github.com/modeltrust/registry/internal/errors"
	"github.com/modeltrust/registry/internal/lineage"
	"github.com/modeltrust/registry/internal/metrics"
	"github.com/modeltrust/registry/internal/monitoring"
	"github.com/modeltrust/registry/internal/registry"
	"github.com/modeltrust/registry/internal/resolver"
)

// listLimit caps one page of artifact listings.
const listLimit = 100

// server holds the wired collaborators behind every HTTP handler.
type server struct {
	store      *registry.Store
	calculator *metrics.Calculator
	resolver   *resolver.Resolver
	cache      *cache.Cache
	metrics    *monitoring.Metrics
	logger     *monitoring.Logger
	threshold  float64
}

func newServer(store *registry.Store, calculator *metrics.Calculator, res *resolver.Resolver,
	appCache *cache.Cache, appMetrics *monitoring.Metrics, appLogger *monitoring.Logger,
	threshold float64) *server {
	return &server{
		store:      store,
		calculator: calculator,
		resolver:   res,
		cache:      appCache,
		metrics:    appMetrics,
		logger:     appLogger,
		threshold:  threshold,
	}
}

// fail records an application error for the error-handling middleware and
// stops the handler chain.
func fail(c *gin.Context, appErr *apperrors.AppError) {
	_ = c.Error(appErr)
	c.Abort()
}

// artifactPayload is the metadata+data envelope every artifact read returns.
func artifactPayload(a *registry.Artifact) gin.H {
	return gin.H{
		"metadata": a.Ref(),
		"data": gin.H{
			"url":          a.URL,
			"download_url": a.DownloadURL,
		},
	}
}

type createArtifactRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *server) handleCreateArtifact(c *gin.Context) {
	artifactType := c.Param("type")
	if !registry.ValidTypes[artifactType] {
		fail(c, apperrors.NewValidationError("Invalid artifact type: "+artifactType))
		return
	}

	var req createArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewValidationError("Missing or invalid artifact data (url required)"))
		return
	}

	name, err := resolver.NameFromURL(req.URL)
	if err != nil {
		fail(c, apperrors.NewValidationError("Unrecognized artifact URL: "+req.URL))
		return
	}

	id := registry.NewArtifactID()
	art := &registry.Artifact{
		ID:          id,
		Type:        artifactType,
		Name:        name,
		URL:         req.URL,
		DownloadURL: fmt.Sprintf("https://download/%s/%s", artifactType, id),
		License:     "unknown",
	}
	s.enrichArtifact(c, art)

	if err := s.store.CreateArtifact(art); err != nil {
		fail(c, apperrors.NewInternalError("Failed to create artifact", err))
		return
	}

	// Models start out with a neutral rating until the first evaluation runs.
	if artifactType == registry.TypeModel {
		if err := s.store.SaveRating(registry.TypeModel, id, defaultRating(name)); err != nil {
			fail(c, apperrors.NewInternalError("Failed to save default rating", err))
			return
		}
	}

	c.JSON(http.StatusCreated, artifactPayload(art))
}

// enrichArtifact fills in license and size from the hosting APIs. Resolution
// failures leave the defaults in place; registration never depends on the
// hosting side being up.
func (s *server) enrichArtifact(c *gin.Context, art *registry.Artifact) {
	ctx := c.Request.Context()

	switch art.Type {
	case registry.TypeModel:
		s.metrics.IncrementHuggingFaceCalls()
		if info, err := s.resolver.ResolveModel(ctx, art.URL); err == nil {
			if info.License != "" {
				art.License = info.License
			}
			art.SizeBytes = info.TotalSizeBytes()
		}
	case registry.TypeDataset:
		s.metrics.IncrementHuggingFaceCalls()
		if info, err := s.resolver.ResolveDataset(ctx, art.URL); err == nil {
			art.License = info.License
			art.SizeBytes = info.SizeBytes
		}
	case registry.TypeCode:
		s.metrics.IncrementGitHubCalls()
		if info, err := s.resolver.ResolveCode(ctx, art.URL); err == nil {
			art.License = info.License
			art.SizeBytes = info.SizeBytes()
		}
	}
}

func (s *server) handleGetArtifact(c *gin.Context) {
	art, ok := s.lookupArtifact(c, c.Param("type"), c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, artifactPayload(art))
}

type updateArtifactRequest struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (s *server) handleUpdateArtifact(c *gin.Context) {
	artifactType := c.Param("type")
	id := c.Param("id")

	var req updateArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Data.URL == "" {
		fail(c, apperrors.NewValidationError("Missing artifact data"))
		return
	}

	if err := s.store.UpdateArtifactURL(artifactType, id, req.Data.URL); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			fail(c, apperrors.NewNotFoundError("Artifact"))
		} else {
			fail(c, apperrors.NewInternalError("Failed to update artifact", err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Artifact updated"})
}

func (s *server) handleDeleteArtifact(c *gin.Context) {
	if err := s.store.DeleteArtifact(c.Param("type"), c.Param("id")); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			fail(c, apperrors.NewNotFoundError("Artifact"))
		} else {
			fail(c, apperrors.NewInternalError("Failed to delete artifact", err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Artifact deleted"})
}

type artifactQuery struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

func (s *server) handleListArtifacts(c *gin.Context) {
	var queries []artifactQuery
	if err := c.ShouldBindJSON(&queries); err != nil || len(queries) == 0 {
		fail(c, apperrors.NewValidationError("Missing query body"))
		return
	}

	offset := 0
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	// A single wildcard query pages through the whole registry.
	if len(queries) == 1 && queries[0].Name == "*" && len(queries[0].Types) == 0 {
		items, err := s.store.ListArtifacts("", offset, listLimit)
		if err != nil {
			fail(c, apperrors.NewInternalError("Failed to list artifacts", err))
			return
		}

		c.Header("X-Offset", strconv.Itoa(offset+len(items)))
		c.JSON(http.StatusOK, refs(items))
		return
	}

	var results []registry.ArtifactRef
	for _, q := range queries {
		var items []*registry.Artifact
		var err error
		if q.Name == "*" {
			items, err = s.store.ListArtifacts("", 0, 0)
		} else {
			items, err = s.store.FindByName(q.Name)
		}
		if err != nil {
			fail(c, apperrors.NewInternalError("Failed to query artifacts", err))
			return
		}

		for _, item := range items {
			if len(q.Types) > 0 && !containsString(q.Types, item.Type) {
				continue
			}
			results = append(results, item.Ref())
		}
	}

	if results == nil {
		results = []registry.ArtifactRef{}
	}
	c.JSON(http.StatusOK, results)
}

func (s *server) handleArtifactByName(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("name"), "/")

	items, err := s.store.FindByName(name)
	if err != nil {
		fail(c, apperrors.NewInternalError("Failed to query artifacts", err))
		return
	}
	if len(items) == 0 {
		fail(c, apperrors.NewNotFoundError("Artifact"))
		return
	}

	c.JSON(http.StatusOK, refs(items))
}

type regexRequest struct {
	Regex string `json:"regex" binding:"required"`
}

func (s *server) handleArtifactByRegex(c *gin.Context) {
	var req regexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewValidationError("Missing regex pattern"))
		return
	}

	if _, err := regexp.Compile(req.Regex); err != nil {
		fail(c, apperrors.NewValidationError("Invalid regex pattern"))
		return
	}

	items, err := s.store.FindByRegex(req.Regex)
	if err != nil {
		fail(c, apperrors.NewInternalError("Failed to query artifacts", err))
		return
	}
	if len(items) == 0 {
		fail(c, apperrors.NewNotFoundError("Artifact"))
		return
	}

	c.JSON(http.StatusOK, refs(items))
}

type ingestRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *server) handleIngestModel(c *gin.Context) {
	if !s.requireModelRoute(c) {
		return
	}

	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewValidationError("Missing or invalid ingest request (url required)"))
		return
	}

	ctx := c.Request.Context()

	s.metrics.IncrementHuggingFaceCalls()
	info, err := s.resolver.ResolveModel(ctx, req.URL)
	if err != nil {
		fail(c, apperrors.NewValidationError("Could not parse model URL: "+req.URL))
		return
	}

	start := time.Now()
	rating := s.calculator.Rate(ctx, info)
	s.metrics.IncrementRatingsComputed()
	s.logger.RatingLogger(info.Name, registry.TypeModel, rating.NetScore, time.Since(start), false)

	passes := metrics.PassesThreshold(&rating, s.threshold)
	s.metrics.RecordIngestDecision(passes)
	s.logger.IngestLogger(info.Name, rating.NetScore, s.threshold, passes)

	if !passes {
		c.JSON(http.StatusFailedDependency, gin.H{
			"accepted": false,
			"reason":   fmt.Sprintf("Model does not meet minimum rating thresholds (>= %g).", s.threshold),
			"score":    rating,
		})
		return
	}

	id := registry.NewArtifactID()
	art := &registry.Artifact{
		ID:          id,
		Type:        registry.TypeModel,
		Name:        info.Name,
		URL:         req.URL,
		DownloadURL: fmt.Sprintf("https://download/model/%s", id),
		License:     info.License,
		Lineage:     lineage.ParentsFromModel(info),
		SizeBytes:   info.TotalSizeBytes(),
	}
	if art.License == "" {
		art.License = "unknown"
	}

	if err := s.store.CreateArtifact(art); err != nil {
		fail(c, apperrors.NewInternalError("Failed to create artifact", err))
		return
	}
	if err := s.store.SaveRating(registry.TypeModel, id, &rating); err != nil {
		fail(c, apperrors.NewInternalError("Failed to save rating", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"accepted": true,
		"metadata": art.Ref(),
		"data": gin.H{
			"url":          art.URL,
			"download_url": art.DownloadURL,
		},
		"score": rating,
	})
}

func (s *server) handleRateModel(c *gin.Context) {
	if !s.requireModelRoute(c) {
		return
	}

	art, ok := s.lookupArtifact(c, registry.TypeModel, c.Param("id"))
	if !ok {
		return
	}

	// Serve the stored rating when one exists. An all-zero record is the
	// uninitialized marker and forces a recompute.
	if stored, err := s.store.LatestRating(registry.TypeModel, art.ID); err == nil && !stored.IsZero() {
		c.JSON(http.StatusOK, stored)
		return
	}

	if art.URL == "" {
		fail(c, apperrors.NewInternalError("No URL for artifact, cannot calculate rating", nil))
		return
	}

	ctx := c.Request.Context()

	s.metrics.IncrementHuggingFaceCalls()
	info, err := s.resolver.ResolveModel(ctx, art.URL)
	if err != nil {
		fail(c, apperrors.NewInternalError("Could not parse model URL", err))
		return
	}

	start := time.Now()
	rating := s.calculator.Rate(ctx, info)
	s.metrics.IncrementRatingsComputed()
	s.logger.RatingLogger(info.Name, registry.TypeModel, rating.NetScore, time.Since(start), false)

	if err := s.store.SaveRating(registry.TypeModel, art.ID, &rating); err != nil {
		fail(c, apperrors.NewInternalError("Failed to save rating", err))
		return
	}

	c.JSON(http.StatusOK, rating)
}

type licenseCheckRequest struct {
	GitHubURL string `json:"github_url" binding:"required"`
}

func (s *server) handleLicenseCheck(c *gin.Context) {
	if !s.requireModelRoute(c) {
		return
	}

	var req licenseCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.NewValidationError("Missing github_url in request body"))
		return
	}

	art, ok := s.lookupArtifact(c, registry.TypeModel, c.Param("id"))
	if !ok {
		return
	}

	ctx := c.Request.Context()

	artifactLicense := art.License
	if (artifactLicense == "" || artifactLicense == "unknown") && art.URL != "" {
		s.metrics.IncrementHuggingFaceCalls()
		if info, err := s.resolver.ResolveModel(ctx, art.URL); err == nil && info.License != "" {
			artifactLicense = info.License
		}
	}

	s.metrics.IncrementGitHubCalls()
	codeInfo, err := s.resolver.ResolveCode(ctx, req.GitHubURL)
	if err != nil {
		fail(c, apperrors.NewExternalAPIError("GitHub", err))
		return
	}

	compatible := metrics.CheckLicenseCompatibility(artifactLicense, codeInfo.License)

	c.JSON(http.StatusOK, compatible)
}

func (s *server) handleLineage(c *gin.Context) {
	if !s.requireModelRoute(c) {
		return
	}

	art, ok := s.lookupArtifact(c, registry.TypeModel, c.Param("id"))
	if !ok {
		return
	}

	parents := art.Lineage
	if len(parents) == 0 && art.URL != "" {
		s.metrics.IncrementHuggingFaceCalls()
		if info, err := s.resolver.ResolveModel(c.Request.Context(), art.URL); err == nil {
			parents = lineage.ParentsFromModel(info)
		}
	}

	c.JSON(http.StatusOK, lineage.BuildGraph(art.ID, art.Name, art.URL, parents))
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"metrics":   s.metrics.GetStats(),
	})
}

func (s *server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.GetStats())
}

func (s *server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.cache.Stats())
}

func (s *server) handleReset(c *gin.Context) {
	deleted, err := s.store.Reset()
	if err != nil {
		fail(c, apperrors.NewInternalError("Failed to reset registry", err))
		return
	}

	s.cache.Clear()
	s.metrics.Reset()

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Registry reset successfully. Deleted %d items.", deleted),
	})
}

// requireModelRoute rejects model-only operations addressed to other types.
func (s *server) requireModelRoute(c *gin.Context) bool {
	if c.Param("type") != registry.TypeModel {
		fail(c, apperrors.NewNotFoundError("Route"))
		return false
	}
	return true
}

// lookupArtifact loads one artifact or responds 404.
func (s *server) lookupArtifact(c *gin.Context, artifactType, id string) (*registry.Artifact, bool) {
	art, err := s.store.GetArtifact(artifactType, id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			fail(c, apperrors.NewNotFoundError("Artifact"))
		} else {
			fail(c, apperrors.NewInternalError("Failed to load artifact", err))
		}
		return nil, false
	}
	return art, true
}

func refs(items []*registry.Artifact) []registry.ArtifactRef {
	out := make([]registry.ArtifactRef, 0, len(items))
	for _, item := range items {
		out = append(out, item.Ref())
	}
	return out
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// defaultRating is the neutral placeholder stored for newly created models.
func defaultRating(name string) *artifact.Rating {
	return &artifact.Rating{
		Name:                       name,
		Category:                   "unknown",
		NetScore:                   0.5,
		NetScoreLatency:            0.1,
		License:                    0.5,
		LicenseLatency:             0.1,
		RampUpTime:                 0.5,
		RampUpTimeLatency:          0.1,
		BusFactor:                  0.5,
		BusFactorLatency:           0.1,
		PerformanceClaims:          0.5,
		PerformanceClaimsLatency:   0.1,
		DatasetAndCodeScore:        0.5,
		DatasetAndCodeScoreLatency: 0.1,
		DatasetQuality:             0.5,
		DatasetQualityLatency:      0.1,
		CodeQuality:                0.5,
		CodeQualityLatency:         0.1,
		Reproducibility:            0.5,
		ReproducibilityLatency:     0.1,
		Reviewedness:               0.5,
		ReviewednessLatency:        0.1,
		TreeScore:                  0.5,
		TreeScoreLatency:           0.1,
		SizeScore: artifact.SizeScore{
			RaspberryPi: 0.5,
			JetsonNano:  0.5,
			DesktopPC:   0.5,
			AWSServer:   0.5,
		},
		SizeScoreLatency: 0.1,
	}
}
