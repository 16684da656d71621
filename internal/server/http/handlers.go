package http

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/dmitrijs2005/jobscreen/internal/server/models"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type predictRequest struct {
	Text string `json:"text"`
}

// PredictResponse carries the label under both historical key names.
type PredictResponse struct {
	Prediction     string  `json:"prediction"`
	Label          string  `json:"label"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime float64 `json:"processing_time"`
	Timestamp      string  `json:"timestamp"`
	Model          string  `json:"model"`
}

type flagRequest struct {
	JobText   string `json:"job_text"`
	Reason    string `json:"reason"`
	Comments  string `json:"comments"`
	Email     string `json:"email"`
	UserEmail string `json:"user_email"`
}

func badRequest(err error) error {
	return fmt.Errorf("%w: malformed request body: %v", common.ErrInvalidInput, err)
}

func (s *HTTPServer) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "API running"})
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) getModelInfo(c *gin.Context) {
	c.JSON(http.StatusOK, s.modelInfo())
}

func (s *HTTPServer) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest(err))
		return
	}

	role, err := s.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signup successful", "role": role})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest(err))
		return
	}

	resp, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest(err))
		return
	}

	out, err := s.predictions.Predict(c.Request.Context(), currentUser(c), req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, PredictResponse{
		Prediction:     out.Label,
		Label:          out.Label,
		Confidence:     out.Confidence,
		ProcessingTime: math.Round(out.ProcessingTime.Seconds()*1000) / 1000,
		Timestamp:      out.Timestamp.UTC().Format(time.RFC3339),
		Model:          out.Model,
	})
}

func (s *HTTPServer) submitFlag(c *gin.Context) {
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest(err))
		return
	}
	if req.Email == "" {
		req.Email = req.UserEmail
	}

	id, err := s.flags.Submit(c.Request.Context(), &models.Flag{
		JobText:  req.JobText,
		Reason:   req.Reason,
		Comments: req.Comments,
		Email:    req.Email,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post flagged successfully", "id": id})
}

func (s *HTTPServer) listFlags(c *gin.Context) {
	flags, err := s.flags.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, flags)
}

func (s *HTTPServer) history(c *gin.Context) {
	items, err := s.analytics.History(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *HTTPServer) stats(c *gin.Context) {
	stats, err := s.analytics.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *HTTPServer) daily(c *gin.Context) {
	days, err := s.analytics.Daily(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	labels := make([]string, 0, len(days))
	counts := make([]int, 0, len(days))
	for _, d := range days {
		labels = append(labels, d.Day)
		counts = append(counts, d.Count)
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels, "counts": counts})
}

func (s *HTTPServer) confidence(c *gin.Context) {
	buckets, err := s.analytics.ConfidenceHistogram(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	values := make([]float64, 0, len(buckets))
	counts := make([]int, 0, len(buckets))
	for _, b := range buckets {
		values = append(values, b.Confidence)
		counts = append(counts, b.Count)
	}
	c.JSON(http.StatusOK, gin.H{"confidence": values, "counts": counts})
}

func (s *HTTPServer) export(c *gin.Context) {
	var buf bytes.Buffer
	if _, err := s.analytics.ExportCSV(c.Request.Context(), &buf); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=predictions.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (s *HTTPServer) archiveExport(c *gin.Context) {
	a, err := s.archive.Archive(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}
