// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterText(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("\n  Acme \n"), &out)

	got, err := p.Text("Cliente")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got)
	assert.Equal(t, "Cliente: Cliente: ", out.String())
}

func TestPrompterText_LastLineWithoutNewline(t *testing.T) {
	p := newPrompter(strings.NewReader("Acme"), &bytes.Buffer{})
	got, err := p.Text("Cliente")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got)
}

func TestPrompterText_EOF(t *testing.T) {
	p := newPrompter(strings.NewReader(""), &bytes.Buffer{})
	_, err := p.Text("Cliente")
	assert.ErrorIs(t, err, errNoAnswer)
}

func TestPrompterYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"s\n", true},
		{"Sí\n", true},
		{"yes\n", true},
		{"N\n", false},
		{"quizá\nno\n", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p := newPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := p.YesNo("¿Proyecto menor?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompterYesNo_EOF(t *testing.T) {
	p := newPrompter(strings.NewReader("tal vez\n"), &bytes.Buffer{})
	_, err := p.YesNo("¿Proyecto menor?")
	assert.ErrorIs(t, err, errNoAnswer)
}
