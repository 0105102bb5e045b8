package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/longkey1/sitechat/internal/sitechat/config"
	"github.com/longkey1/sitechat/internal/sitechat/session"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinishChat(t *testing.T) {
	tests := []struct {
		name      string
		save      bool
		cancelled bool
		runErr    error
		wantSaved bool
		wantErr   error
	}{
		{name: "clean exit with save", save: true, wantSaved: true},
		{name: "clean exit without save", save: false, wantSaved: false},
		{name: "killed by signal still saves", save: true, runErr: tea.ErrProgramKilled, wantSaved: true, wantErr: tea.ErrProgramKilled},
		{name: "interrupted still saves", save: true, runErr: tea.ErrInterrupted, wantSaved: true, wantErr: tea.ErrInterrupted},
		{name: "cancelled context still saves", save: true, cancelled: true, runErr: errors.New("program stopped"), wantSaved: true},
		{name: "other failure does not save", save: true, runErr: errors.New("no tty"), wantSaved: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetCommandState(t)
			t.Cleanup(func() { resetCommandState(t) })
			saveSession = tt.save

			cfg := config.NewDefaultConfig(filepath.Join(t.TempDir(), "sessions"))
			sess := newSession(cfg)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancelled {
				cancel()
			}
			var stderr bytes.Buffer
			c := &cobra.Command{}
			c.SetContext(ctx)
			c.SetErr(&stderr)

			err := finishChat(c, cfg, sess, tt.runErr)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.runErr != nil:
				assert.ErrorIs(t, err, tt.runErr)
			default:
				assert.NoError(t, err)
			}

			archives, listErr := session.NewStore(cfg.SessionDir).List()
			require.NoError(t, listErr)
			if tt.wantSaved {
				require.Len(t, archives, 1)
				assert.Equal(t, sess.Transcript(), archives[0].Messages)
				assert.Contains(t, stderr.String(), "Session saved:")
			} else {
				assert.Empty(t, archives)
			}
		})
	}
}
