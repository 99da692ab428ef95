package dispatch

import "os/exec"

// CommandExecutor runs one prepared command. The abstraction exists so
// gesture-to-action mapping is testable without spawning processes.
type CommandExecutor interface {
	// Run executes the command and returns the combined output (stdout+stderr).
	Run() ([]byte, error)
}

// CommandBuilder constructs executors for the two shapes of action the
// dispatcher issues: direct argv invocations for built-in actions, and
// shell lines for user-configured ones.
type CommandBuilder interface {
	// BuildCommand creates a CommandExecutor for a direct invocation.
	BuildCommand(name string, args ...string) CommandExecutor

	// BuildShellCommand creates a CommandExecutor running a line via sh -c.
	BuildShellCommand(command string) CommandExecutor
}

// RealCommandExecutor wraps exec.Cmd to implement CommandExecutor.
type RealCommandExecutor struct {
	cmd *exec.Cmd
}

// Run executes the command and returns combined output.
func (r *RealCommandExecutor) Run() ([]byte, error) {
	return r.cmd.CombinedOutput()
}

// RealCommandBuilder implements CommandBuilder using exec.Command.
type RealCommandBuilder struct{}

// NewRealCommandBuilder creates a new RealCommandBuilder.
func NewRealCommandBuilder() *RealCommandBuilder {
	return &RealCommandBuilder{}
}

// BuildCommand creates a CommandExecutor for the given command and arguments.
func (b *RealCommandBuilder) BuildCommand(name string, args ...string) CommandExecutor {
	return &RealCommandExecutor{cmd: exec.Command(name, args...)}
}

// BuildShellCommand creates a CommandExecutor for shell command lines.
func (b *RealCommandBuilder) BuildShellCommand(command string) CommandExecutor {
	return &RealCommandExecutor{cmd: exec.Command("sh", "-c", command)}
}

// MockCommandExecutor implements CommandExecutor for testing.
type MockCommandExecutor struct {
	// Output is the output to return from Run.
	Output []byte
	// Err is the error to return from Run.
	Err error
	// RunCalled indicates whether Run was called.
	RunCalled bool
}

// Run returns the configured output and error.
func (m *MockCommandExecutor) Run() ([]byte, error) {
	m.RunCalled = true
	return m.Output, m.Err
}

// MockCommandBuilder implements CommandBuilder for testing.
type MockCommandBuilder struct {
	// Commands records all commands that were built.
	Commands []MockBuiltCommand
	// NextExecutor is the next executor to return. If nil, a default
	// MockCommandExecutor is created.
	NextExecutor *MockCommandExecutor
}

// MockBuiltCommand records details of a built command.
type MockBuiltCommand struct {
	Name    string
	Args    []string
	IsShell bool
}

// NewMockCommandBuilder creates a new MockCommandBuilder.
func NewMockCommandBuilder() *MockCommandBuilder {
	return &MockCommandBuilder{}
}

// BuildCommand creates a MockCommandExecutor and records the invocation.
func (b *MockCommandBuilder) BuildCommand(name string, args ...string) CommandExecutor {
	b.Commands = append(b.Commands, MockBuiltCommand{Name: name, Args: args})
	return b.nextExecutor()
}

// BuildShellCommand creates a MockCommandExecutor for shell lines.
func (b *MockCommandBuilder) BuildShellCommand(command string) CommandExecutor {
	b.Commands = append(b.Commands, MockBuiltCommand{
		Name:    "sh",
		Args:    []string{"-c", command},
		IsShell: true,
	})
	return b.nextExecutor()
}

func (b *MockCommandBuilder) nextExecutor() *MockCommandExecutor {
	if b.NextExecutor != nil {
		executor := b.NextExecutor
		b.NextExecutor = nil
		return executor
	}
	return &MockCommandExecutor{}
}

// LastCommand returns the most recently built command, or nil if none.
func (b *MockCommandBuilder) LastCommand() *MockBuiltCommand {
	if len(b.Commands) == 0 {
		return nil
	}
	return &b.Commands[len(b.Commands)-1]
}
