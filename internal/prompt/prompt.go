// Package prompt asks the user to pick one of a small set of choices,
// with a full-screen-free bubbletea list on a terminal and a plain stdin
// fallback otherwise.
package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Choice is one selectable option.
type Choice struct {
	Label string
	Help  string
}

// Select asks the user to pick a choice and returns its index, or -1 when
// the prompt was aborted.
func Select(title string, choices []Choice) (int, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return selectPlain(title, choices)
	}

	m := newModel(title, choices)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return -1, err
	}
	result := final.(model)
	if result.aborted {
		return -1, nil
	}
	return result.cursor, nil
}

// ReadLine prints a prompt and reads one trimmed line from stdin.
func ReadLine(promptText string) (string, error) {
	fmt.Print(promptText)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a y/n question on stdin.
func Confirm(question string) bool {
	answer, err := ReadLine(question + " (y/n): ")
	if err != nil {
		return false
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}

// selectPlain is the non-TTY fallback: numbered list, read an index.
func selectPlain(title string, choices []Choice) (int, error) {
	fmt.Println(title)
	for i, c := range choices {
		fmt.Printf("  %d) %s\n", i+1, c.Label)
	}
	answer, err := ReadLine("Choice: ")
	if err != nil {
		return -1, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(choices) {
		return -1, nil
	}
	return n - 1, nil
}
