package operations

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tracewire/tracewire/internal/ui/models/spinner"
)

type OperationFunc func() (interface{}, error)

type DisplayFunc func(result interface{})

// WithSpinner runs operation behind a spinner and hands the result to
// display once it completes.
func WithSpinner(message string, operation OperationFunc, display DisplayFunc) error {
	model := spinner.NewWithMessage(message)
	program := tea.NewProgram(model)

	go func() {
		result, err := operation()
		if err != nil {
			program.Send(spinner.ErrorMsg{Err: err})
			return
		}
		program.Send(spinner.ResultMsg{Result: result})
	}()

	finalModel, err := program.Run()
	if err != nil {
		return err
	}

	final, ok := finalModel.(spinner.Model)
	if !ok {
		return fmt.Errorf("program finished with invalid model")
	}

	if final.HasError() {
		return final.GetError()
	}

	if display != nil && final.HasResult() {
		display(final.GetResult())
	}

	return nil
}
