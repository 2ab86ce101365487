package httpapi

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/sercha-assist/internal/connectors/web"
	"github.com/custodia-labs/sercha-assist/internal/core/domain"
	"github.com/custodia-labs/sercha-assist/internal/core/ports/driving"
)

func (s *Server) register() {
	// GET /healthz
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sessions := s.engine.Group("/v1/sessions")
	{
		// POST /v1/sessions
		// Load the seed page and open a session
		sessions.POST("", s.openSession)

		// GET /v1/sessions/:id
		// Crawl state and indexed pages
		sessions.GET("/:id", s.getSession)

		// DELETE /v1/sessions/:id
		sessions.DELETE("/:id", s.closeSession)

		// POST /v1/sessions/:id/activate
		// Start the crawl in the background
		sessions.POST("/:id/activate", s.activate)

		// POST /v1/sessions/:id/ask
		sessions.POST("/:id/ask", s.ask)

		// POST /v1/sessions/:id/escalate
		sessions.POST("/:id/escalate", s.escalate)

		// POST /v1/sessions/:id/events/:topic
		// Raise a session signal; replies it produces are returned
		sessions.POST("/:id/events/:topic", s.publish)
	}
}

type openRequest struct {
	URL string `json:"url"`
}

type askRequest struct {
	Query string `json:"query"`
}

type escalateRequest struct {
	Message string `json:"message"`
}

type pageView struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type sessionView struct {
	ID        string            `json:"session_id"`
	State     string            `json:"state"`
	Documents []pageView        `json:"documents"`
	Stats     domain.CrawlStats `json:"stats"`
}

func (s *Server) openSession(c *gin.Context) {
	var req openRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, http.StatusBadRequest, ErrBadRequestCode, "invalid request body", err)
		return
	}

	seed, status, msg := s.seedFor(req.URL)
	if status != http.StatusOK {
		code := ErrBadRequestCode
		if status == http.StatusForbidden {
			code = ErrForbiddenCode
		}
		respondError(c, status, code, msg, nil)
		return
	}

	id, _, err := s.sessions.Open(c.Request.Context(), seed)
	if err != nil {
		respondDomainError(c, "failed to open session", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

// seedFor picks the seed page. Seeds must be absolute http(s) URLs. With a
// configured site, an empty URL means the site itself and any other URL must
// share its origin.
func (s *Server) seedFor(raw string) (string, int, string) {
	if raw == "" {
		if s.site == nil {
			return "", http.StatusBadRequest, "url is required"
		}
		return s.site.String(), http.StatusOK, ""
	}
	if !web.IsHTTPURL(raw) {
		return "", http.StatusBadRequest, "url must be an absolute http(s) URL"
	}
	if s.site == nil {
		return raw, http.StatusOK, ""
	}
	u, err := url.Parse(raw)
	if err != nil || !web.SameOrigin(u, s.site) {
		return "", http.StatusForbidden, "url is outside the configured site"
	}
	return raw, http.StatusOK, ""
}

func (s *Server) getSession(c *gin.Context) {
	id, assistant, ok := s.lookup(c)
	if !ok {
		return
	}

	docs := assistant.Documents()
	pages := make([]pageView, len(docs))
	for i, d := range docs {
		pages[i] = pageView{Title: d.Title, URL: d.URL}
	}

	c.JSON(http.StatusOK, sessionView{
		ID:        id,
		State:     assistant.State().String(),
		Documents: pages,
		Stats:     assistant.Stats(),
	})
}

func (s *Server) closeSession(c *gin.Context) {
	if err := s.sessions.Close(c.Param("id")); err != nil {
		respondDomainError(c, "failed to close session", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) activate(c *gin.Context) {
	_, assistant, ok := s.lookup(c)
	if !ok {
		return
	}
	if err := assistant.Publish(domain.TopicActivate); err != nil {
		respondDomainError(c, "failed to activate", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"state": assistant.State().String()})
}

func (s *Server) ask(c *gin.Context) {
	_, assistant, ok := s.lookup(c)
	if !ok {
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrBadRequestCode, "invalid request body", err)
		return
	}

	reply, err := assistant.Ask(c.Request.Context(), req.Query)
	if err != nil {
		// the client went away
		c.Status(http.StatusRequestTimeout)
		return
	}

	c.JSON(http.StatusOK, newReplyView(reply))
}

// escalate opens the escalation flow. With a message the deep link carries
// it; without one the flow is raised as a session signal, the same way an
// external "talk to a mentor" button would.
func (s *Server) escalate(c *gin.Context) {
	_, assistant, ok := s.lookup(c)
	if !ok {
		return
	}

	var req escalateRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, http.StatusBadRequest, ErrBadRequestCode, "invalid request body", err)
		return
	}

	if req.Message != "" {
		c.JSON(http.StatusOK, newReplyView(assistant.Escalate(req.Message)))
		return
	}

	if err := assistant.Publish(domain.TopicOpenEscalation); err != nil {
		respondDomainError(c, "failed to escalate", err)
		return
	}
	replies := assistant.Drain()
	if len(replies) == 0 {
		respondError(c, http.StatusInternalServerError, ErrInternalCode, "escalation produced no reply", nil)
		return
	}
	c.JSON(http.StatusOK, newReplyView(replies[len(replies)-1]))
}

func (s *Server) publish(c *gin.Context) {
	_, assistant, ok := s.lookup(c)
	if !ok {
		return
	}

	topic := domain.Topic(c.Param("topic"))
	if err := assistant.Publish(topic); err != nil {
		respondDomainError(c, "unknown topic", err)
		return
	}

	replies := assistant.Drain()
	views := make([]replyView, len(replies))
	for i, r := range replies {
		views[i] = newReplyView(r)
	}
	c.JSON(http.StatusAccepted, gin.H{"replies": views})
}

// bindOptionalJSON binds the body into obj. An empty body leaves obj as is.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Server) lookup(c *gin.Context) (string, driving.Assistant, bool) {
	id := c.Param("id")
	assistant, err := s.sessions.Get(id)
	if err != nil {
		respondDomainError(c, "session not found", err)
		return "", nil, false
	}
	return id, assistant, true
}
