package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/headhunter"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/scoring"
)

type scoreRequest struct {
	JobDescription string `json:"job_description"`
	CV             string `json:"cv"`
}

type scoreResponse struct {
	Reply     string `json:"reply"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

type pageData struct {
	JobDescription string
	CV             string
	Reply          string
	Provider       string
	Model          string
	Elapsed        string
	Error          string
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{})
}

func (s *Server) submitForm(c *gin.Context) {
	data := pageData{
		JobDescription: c.PostForm("job_description"),
		CV:             c.PostForm("cv"),
	}

	res, err := s.score(c, scoring.Request{JobDescription: data.JobDescription, CV: data.CV})
	if err != nil {
		data.Error = err.Error()
		c.HTML(errorStatus(err), "index.html", data)
		return
	}

	data.Reply = res.Reply
	data.Provider = res.Provider
	data.Model = res.Model
	data.Elapsed = res.Elapsed.Round(100 * time.Millisecond).String()

	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) scoreJSON(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return
	}

	res, err := s.score(c, scoring.Request{JobDescription: req.JobDescription, CV: req.CV})
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, scoreResponse{
		Reply:     res.Reply,
		Provider:  res.Provider,
		Model:     res.Model,
		ElapsedMS: res.Elapsed.Milliseconds(),
	})
}

func (s *Server) score(c *gin.Context, req scoring.Request) (*scoring.Result, error) {
	res, err := s.scorer.Score(c.Request.Context(), req)
	if err != nil {
		requestLogger(c, s.logger).Error("scoring failed", zap.Error(err))
		return nil, err
	}

	return res, nil
}

// errorStatus maps a scoring error to a response code. A page that could not be
// parsed is a problem with the submitted link, not with the upstream provider.
func errorStatus(err error) int {
	if errors.Is(err, headhunter.ErrUnrecognizedPage) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
