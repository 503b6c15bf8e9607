package action

import (
	"bytes"
	"errors"
	"os/exec"
)

// Process is a spawned external command
type Process interface {
	// Exited reports whether the process has finished. It never blocks.
	Exited() bool
	Stdout() string
	Stderr() string
}

// Spawner starts external commands
type Spawner interface {
	Spawn(argv []string) (Process, error)
}

// ExecSpawner runs commands with os/exec
type ExecSpawner struct{}

// Spawn starts argv with separately captured stdout and stderr
func (ExecSpawner) Spawn(argv []string) (Process, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	p := &execProcess{done: make(chan struct{})}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	// Reap in the background; buffers are final once done is closed
	go func() {
		cmd.Wait()
		close(p.done)
	}()

	return p, nil
}

type execProcess struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	done   chan struct{}
}

func (p *execProcess) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Stdout blocks until the process has exited
func (p *execProcess) Stdout() string {
	<-p.done
	return p.stdout.String()
}

// Stderr blocks until the process has exited
func (p *execProcess) Stderr() string {
	<-p.done
	return p.stderr.String()
}
