package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"talentscout-bot/internal/intake"
)

// Console runs one intake session over a line-based reader and writer.
type Console struct {
	workflow  *intake.Workflow
	dialog    *intake.Dialog
	in        io.Reader
	out       io.Writer
	exportDir string
}

func New(workflow *intake.Workflow, dialog *intake.Dialog, in io.Reader, out io.Writer, exportDir string) *Console {
	return &Console{
		workflow:  workflow,
		dialog:    dialog,
		in:        in,
		out:       out,
		exportDir: exportDir,
	}
}

// Run converses until the candidate leaves, input ends or ctx is cancelled.
func (c *Console) Run(ctx context.Context) (*intake.Session, error) {
	session := c.workflow.NewSession()
	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	c.print(c.dialog.Start(session))

	for {
		if err := ctx.Err(); err != nil {
			return session, err
		}

		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return session, scanner.Err()
		}

		reply := c.dialog.Handle(ctx, session, scanner.Text())
		c.print(reply)

		for _, a := range reply.Attachments {
			path, err := c.save(a)
			if err != nil {
				return session, err
			}
			fmt.Fprintf(c.out, "Saved %s\n", path)
		}

		if reply.Done {
			return session, nil
		}
	}
}

func (c *Console) print(reply intake.Reply) {
	for _, m := range reply.Messages {
		fmt.Fprintf(c.out, "Assistant: %s\n", m)
	}
}

func (c *Console) save(a intake.Attachment) (string, error) {
	if err := os.MkdirAll(c.exportDir, 0755); err != nil {
		return "", fmt.Errorf("error creating directory %s: %w", c.exportDir, err)
	}
	path := filepath.Join(c.exportDir, a.Name)
	if err := os.WriteFile(path, a.Data, 0644); err != nil {
		return "", fmt.Errorf("error writing %s: %w", path, err)
	}
	zap.S().Named("console").Debugf("wrote %s (%d bytes)", path, len(a.Data))
	return path, nil
}
