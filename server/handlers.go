package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/poiesic/triage/core"
	"github.com/poiesic/triage/tickets"
)

type classifyRequest struct {
	Text string `json:"text"`
}

type answerRequest struct {
	Query string `json:"query"`
}

type documentsRequest struct {
	Documents []documentPayload `json:"documents"`
}

type documentPayload struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Source   string            `json:"source"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type ticketResult struct {
	Ticket         core.Ticket         `json:"ticket"`
	Classification core.Classification `json:"classification"`
	Answer         *core.Answer        `json:"answer,omitempty"`
}

// health GET /health.
func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// listTickets GET /tickets classifies every loaded ticket.
func (s *Server) listTickets(c *fiber.Ctx) error {
	results, err := s.service.ClassifyAll(c.UserContext(), s.tickets)
	if err != nil {
		return err
	}
	items := make([]ticketResult, len(results))
	for i, result := range results {
		items[i] = ticketResult{Ticket: result.Ticket, Classification: result.Classification}
	}
	return c.JSON(fiber.Map{"data": items})
}

// getTicket GET /tickets/:id classifies and answers one ticket.
func (s *Server) getTicket(c *fiber.Ctx) error {
	ticket, ok := tickets.Find(s.tickets, c.Params("id"))
	if !ok {
		return notFound("ticket " + c.Params("id") + " not found")
	}
	reply := s.service.Answer(c.UserContext(), ticket.Text())
	return c.JSON(fiber.Map{"data": ticketResult{
		Ticket:         ticket,
		Classification: reply.Classification,
		Answer:         &reply,
	}})
}

// classify POST /classify.
func (s *Server) classify(c *fiber.Ctx) error {
	var req classifyRequest
	if err := c.BodyParser(&req); err != nil {
		return validationError("invalid payload")
	}
	if strings.TrimSpace(req.Text) == "" {
		return validationError("text required")
	}
	return c.JSON(s.service.Classify(c.UserContext(), req.Text))
}

// answer POST /answer.
func (s *Server) answer(c *fiber.Ctx) error {
	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return validationError("invalid payload")
	}
	if strings.TrimSpace(req.Query) == "" {
		return validationError("query required")
	}
	return c.JSON(s.service.Answer(c.UserContext(), req.Query))
}

// addDocuments POST /documents.
func (s *Server) addDocuments(c *fiber.Ctx) error {
	var req documentsRequest
	if err := c.BodyParser(&req); err != nil {
		return validationError("invalid payload")
	}
	if len(req.Documents) == 0 {
		return validationError("documents required")
	}

	docs := make([]core.Document, len(req.Documents))
	for i, payload := range req.Documents {
		if strings.TrimSpace(payload.Text) == "" {
			return validationError("document text required")
		}
		docs[i] = core.Document{
			ID:       payload.ID,
			Text:     payload.Text,
			Source:   payload.Source,
			Metadata: payload.Metadata,
		}
	}

	if err := s.service.Ingest(c.UserContext(), docs...); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"added": len(docs)})
}
