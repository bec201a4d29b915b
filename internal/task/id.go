package task

import (
	"crypto/rand"
	"fmt"
	"time"
)

// idSuffixAlphabet is the character set for the random part of a task id.
const idSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// idSuffixLength is the number of random characters appended to a task id.
const idSuffixLength = 9

// newTaskID generates an id of the form task_<unix millis>_<random suffix>.
// The millisecond timestamp keeps ids roughly sortable by creation time;
// the random suffix makes them collision-resistant and unguessable enough
// to act as a bearer capability for status, cancel, and chat access.
func newTaskID() (string, error) {
	buf := make([]byte, idSuffixLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIDGeneration, err)
	}

	for i, b := range buf {
		buf[i] = idSuffixAlphabet[int(b)%len(idSuffixAlphabet)]
	}

	return fmt.Sprintf("task_%d_%s", time.Now().UnixMilli(), buf), nil
}
