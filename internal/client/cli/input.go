package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

func GetSimpleText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Println(prompt)
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// GetToken reads an auth token from the terminal without echo.
func GetToken() ([]byte, error) {
	fmt.Println("-Paste auth token")
	token, err := readPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimSpace(string(token))), nil
}
