package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// PrintJSON writes v as indented JSON under a styled title.
func PrintJSON(w io.Writer, title string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if title != "" {
		fmt.Fprintln(w, titleStyle.Render(title))
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// PrintSuccess prints a success line.
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

// PrintIdentity prints who the session belongs to and when it ends.
func PrintIdentity(w io.Writer, userID int64, email string, expiresAt time.Time) {
	fmt.Fprintln(w, successStyle.Render("Logged in as "+email))
	fmt.Fprintln(w, subtleStyle.Render(fmt.Sprintf("  user id %d, session expires %s", userID, expiresAt.Local().Format(time.RFC1123))))
}

// PrintHint prints a dimmed helper line.
func PrintHint(w io.Writer, msg string) {
	fmt.Fprintln(w, subtleStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+msg))
}
