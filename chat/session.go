package chat

import (
	"sync"

	"github.com/google/uuid"

	"business-advisor/completion"
)

type Mode string

const (
	ModeUnset   Mode = ""
	ModeGeneral Mode = "general"
	ModeData    Mode = "data"
)

// Session holds the conversational state of one user: selected mode,
// running message history, active system instruction, and the raw
// workbook uploaded in data mode. All mutation goes through the session
// mutex; one session handles one turn at a time.
type Session struct {
	id uuid.UUID

	mu          sync.Mutex
	mode        Mode
	instruction string
	messages    []completion.Message
	workbook    []byte
}

func NewSession(id uuid.UUID) *Session {
	return &Session{id: id}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SelectMode switches the session mode and resets history. The general
// mode gets its fixed instruction and greeting immediately; the data
// mode stays unconfigured until a profile activates grounding.
func (s *Session) SelectMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
	s.messages = nil
	s.instruction = ""
	s.workbook = nil

	if mode == ModeGeneral {
		s.instruction = GeneralInstruction
		s.messages = []completion.Message{
			{Role: completion.RoleAssistant, Content: GeneralGreeting},
		}
	}
}

// ActivateGrounding installs the data-grounded instruction built from a
// freshly computed profile text and restarts the conversation. Called
// once per successful upload; mid-conversation messages never rebuild
// the instruction.
func (s *Session) ActivateGrounding(profileText string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.instruction = DataInstruction(profileText)
	s.messages = []completion.Message{
		{Role: completion.RoleAssistant, Content: DataGreeting},
	}
}

// Grounded reports whether the session can accept chat turns: either
// general mode, or data mode with an instruction built from an upload.
func (s *Session) Grounded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instruction != ""
}

// SetWorkbook stores a freshly uploaded workbook and drops any previous
// grounding: the session returns to unconfigured until the new upload is
// profiled.
func (s *Session) SetWorkbook(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workbook = data
	s.instruction = ""
	s.messages = nil
}

func (s *Session) Workbook() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workbook
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []completion.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]completion.Message, len(s.messages))
	copy(out, s.messages)
	return out
}
