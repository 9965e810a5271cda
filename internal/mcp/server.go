// Package mcp exposes a configured machine as Model Context Protocol tools
// so editor agents can encipher and decipher text.
package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"enigma/internal/config"
	"enigma/internal/format"
	"enigma/internal/logging"
	"enigma/internal/machine"
)

// Server wraps the MCP SDK server and the one machine it drives.
type Server struct {
	MCPServer *sdkmcp.Server
	Events    EventLog

	mu        sync.Mutex
	model     *config.Model
	machine   *machine.Machine
	sessionID string
	converted int
}

// NewServer creates an MCP server whose configure tool draws rotors from
// model unless the caller names another configuration file.
func NewServer(model *config.Model, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{model: model}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "enigma", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "configure",
		Description: "Set up the machine from a setup line such as '* B Beta III IV I AXLE (HQ) (EX)'. Returns a session ID; reconfiguring starts a new session.",
	}, s.handleConfigure)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "convert",
		Description: "Encipher or decipher a message with the configured machine. Whitespace is ignored; the rotors keep their positions between calls.",
	}, s.handleConvert)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "positions",
		Description: "Report the rotors, window positions and ring settings of the configured machine.",
	}, s.handlePositions)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_events",
		Description: "Read the server activity log (configure, convert, config reloads), optionally from a given index.",
	}, s.handleGetEvents)
}

// --- Tool input/output types ---

type configureInput struct {
	Setup      string `json:"setup" jsonschema:"setup line: '*', rotor names, positions, optional rings, plugboard cycles"`
	ConfigPath string `json:"config_path,omitempty" jsonschema:"machine configuration file (classic, YAML or JSON); default is the server's configuration"`
}

type configureOutput struct {
	SessionID string   `json:"session_id"`
	Rotors    []string `json:"rotors"`
	Positions string   `json:"positions"`
}

type convertInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session ID from configure; rejected if the machine was reconfigured since"`
	Message   string `json:"message" jsonschema:"text to convert"`
	Grouped   bool   `json:"grouped,omitempty" jsonschema:"split the output into groups of five"`
}

type convertOutput struct {
	Output    string `json:"output"`
	Positions string `json:"positions"`
	Symbols   int    `json:"symbols"`
}

type positionsInput struct{}

type positionsOutput struct {
	SessionID string   `json:"session_id"`
	Rotors    []string `json:"rotors"`
	Positions string   `json:"positions"`
	Rings     string   `json:"rings"`
	Converted int      `json:"converted"`
}

type getEventsInput struct {
	Since int `json:"since,omitempty" jsonschema:"return events from this index onward (0-based)"`
}

type getEventsOutput struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
}

// --- Tool handlers ---

func (s *Server) handleConfigure(_ context.Context, _ *sdkmcp.CallToolRequest, input configureInput) (*sdkmcp.CallToolResult, configureOutput, error) {
	logger := logging.New("mcp")

	model := s.Model()
	if input.ConfigPath != "" {
		cfg, err := config.LoadFromPath(input.ConfigPath)
		if err != nil {
			return nil, configureOutput{}, fmt.Errorf("configure: %w", err)
		}
		if model, err = cfg.Build(); err != nil {
			return nil, configureOutput{}, fmt.Errorf("configure: %w", err)
		}
	}
	if model == nil {
		return nil, configureOutput{}, fmt.Errorf("configure: no machine configuration loaded (pass config_path)")
	}

	setup, err := config.ParseSetup(input.Setup, model.Slots)
	if err != nil {
		return nil, configureOutput{}, fmt.Errorf("configure: %w", err)
	}
	m, err := model.NewMachine()
	if err != nil {
		return nil, configureOutput{}, fmt.Errorf("configure: %w", err)
	}
	if err := setup.Apply(m); err != nil {
		return nil, configureOutput{}, fmt.Errorf("configure: %w", err)
	}

	// Once published, m belongs to convert calls; read it under the lock.
	s.mu.Lock()
	s.machine = m
	s.sessionID = uuid.NewString()
	s.converted = 0
	id := s.sessionID
	pos := m.Positions()
	s.mu.Unlock()

	logger.Info("machine configured", "session_id", id, "rotors", strings.Join(setup.Rotors, " "))
	s.Events.Emit("configure", id, map[string]string{
		"rotors":    strings.Join(setup.Rotors, " "),
		"positions": pos,
	})
	return nil, configureOutput{SessionID: id, Rotors: setup.Rotors, Positions: pos}, nil
}

func (s *Server) handleConvert(_ context.Context, _ *sdkmcp.CallToolRequest, input convertInput) (*sdkmcp.CallToolResult, convertOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSession(input.SessionID); err != nil {
		return nil, convertOutput{}, err
	}
	msg := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input.Message)
	out, err := s.machine.ConvertString(msg)
	if err != nil {
		return nil, convertOutput{}, fmt.Errorf("convert: %w", err)
	}
	n := len([]rune(out))
	s.converted += n
	if input.Grouped {
		out = format.Groups(out, format.GroupSize)
	}

	s.Events.Emit("convert", s.sessionID, map[string]string{
		"symbols":   strconv.Itoa(n),
		"positions": s.machine.Positions(),
	})
	return nil, convertOutput{Output: out, Positions: s.machine.Positions(), Symbols: n}, nil
}

func (s *Server) handlePositions(_ context.Context, _ *sdkmcp.CallToolRequest, _ positionsInput) (*sdkmcp.CallToolResult, positionsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkSession(""); err != nil {
		return nil, positionsOutput{}, err
	}
	m := s.machine
	alpha := m.Alphabet()
	out := positionsOutput{
		SessionID: s.sessionID,
		Positions: m.Positions(),
		Converted: s.converted,
	}
	var rings strings.Builder
	for k := 0; k < m.NumRotors(); k++ {
		r := m.Rotor(k)
		out.Rotors = append(out.Rotors, r.Name())
		if k > 0 {
			rings.WriteRune(alpha.MustSymbol(r.Ring()))
		}
	}
	out.Rings = rings.String()
	return nil, out, nil
}

func (s *Server) handleGetEvents(_ context.Context, _ *sdkmcp.CallToolRequest, input getEventsInput) (*sdkmcp.CallToolResult, getEventsOutput, error) {
	return nil, getEventsOutput{
		Events: s.Events.Since(input.Since),
		Total:  s.Events.Len(),
	}, nil
}

// checkSession requires a configured machine and, when id is non-empty,
// that it names the current session. s.mu must be held.
func (s *Server) checkSession(id string) error {
	if s.machine == nil {
		return fmt.Errorf("no machine configured (call configure first)")
	}
	if id != "" && id != s.sessionID {
		return fmt.Errorf("session_id mismatch: have %s, got %s", s.sessionID, id)
	}
	return nil
}

// Model returns the configuration new sessions are built from.
func (s *Server) Model() *config.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// SetModel replaces the configuration used by later configure calls. The
// current session keeps its machine.
func (s *Server) SetModel(m *config.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = m
}

// SessionID returns the current session's ID, or empty string if none.
func (s *Server) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Run serves on the given transport until ctx is canceled or the client
// disconnects.
func (s *Server) Run(ctx context.Context, t sdkmcp.Transport) error {
	return s.MCPServer.Run(ctx, t)
}
