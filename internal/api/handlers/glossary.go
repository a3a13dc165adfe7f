package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/gpp-sim/pkg/utils"
)

// GlossaryTerm explains one metric or GPP concept surfaced in results.
type GlossaryTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

var glossaryTerms = []GlossaryTerm{
	{"gpp", "Guaranteed Prize Pool tournament, where outlier ceiling outcomes matter more than average expectation."},
	{"boom_score", "Share of simulated outcomes (0-100) exceeding the boom threshold multiple of a player's projection."},
	{"bust_risk", "Complement of the boom score: 100 minus boom_score."},
	{"floor", "Low-end percentile of a player's simulated outcomes (10th by default)."},
	{"ceiling", "High-end percentile of a player's simulated outcomes (90th by default)."},
	{"leverage_score", "How far a player's ceiling sits above the field's median ceiling, rescaled to 0-100."},
	{"consistency", "100 x (1 - std/mean) of simulated outcomes, clamped to 0-100. Higher means steadier."},
	{"stack", "A correlated group of players, e.g. a quarterback with his own receiver, whose outcomes move together."},
}

// GlossaryHandler serves the static metric glossary.
type GlossaryHandler struct{}

// NewGlossaryHandler creates a glossary handler.
func NewGlossaryHandler() *GlossaryHandler {
	return &GlossaryHandler{}
}

// GetGlossaryTerms handles GET /glossary.
func (h *GlossaryHandler) GetGlossaryTerms(c *gin.Context) {
	utils.SendSuccess(c, glossaryTerms)
}

// GetGlossaryTerm handles GET /glossary/:term.
func (h *GlossaryHandler) GetGlossaryTerm(c *gin.Context) {
	want := strings.ToLower(c.Param("term"))
	for _, term := range glossaryTerms {
		if term.Term == want {
			utils.SendSuccess(c, term)
			return
		}
	}
	utils.SendNotFound(c, "Glossary term not found")
}
