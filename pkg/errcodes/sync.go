package errcodes

import "fmt"

// SyncError is returned when a synchronization with a bank fails.
//
// The first synchronization happens when an access is created and has no
// prior context, so some codes get a different message.
type SyncError struct {
	Err       *Error
	FirstSync bool
}

// NewSyncError wraps err as a SyncError.
func NewSyncError(err error, firstSync bool) *SyncError {
	return &SyncError{
		Err:       FromError(err),
		FirstSync: firstSync,
	}
}

func (e *SyncError) Error() string {
	return e.UserMessage()
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Code is the code of the underlying error.
func (e *SyncError) Code() Code {
	return e.Err.Code
}

// UserMessage is the message to show to the user.
func (e *SyncError) UserMessage() string {
	if e.FirstSync {
		return firstSyncMessage(e.Err)
	}
	return syncMessage(e.Err)
}

func firstSyncMessage(err *Error) string {
	switch err.Code {
	case ExpiredPassword:
		return "Your password has expired, please renew it on your bank's website first."
	case InvalidParameters:
		content := err.Content
		if content == "" {
			content = "?"
		}
		return fmt.Sprintf("The access parameters are invalid: %s", content)
	case InvalidPassword:
		return "The login or password is wrong, please check them and try again."
	case NoAccounts:
		return "No bank accounts were found for this access."
	case UnknownModule:
		return "This bank is not supported by the installed fetch source."
	}
	return genericMessage(err)
}

func syncMessage(err *Error) string {
	switch err.Code {
	case ExpiredPassword:
		return "Your password has expired, please renew it on your bank's website first."
	case InvalidPassword:
		return "The password seems to have changed, please update it in the access settings."
	case NoAccounts:
		return "No bank accounts were found anymore after the synchronization."
	case NoPassword:
		return "No password is stored for this access, please set it in the access settings."
	case UnknownModule:
		return "This bank is not supported by the installed fetch source."
	}
	return genericMessage(err)
}

func genericMessage(err *Error) string {
	if err.ShortMessage != "" {
		return fmt.Sprintf("An error happened during the synchronization: %s", err.ShortMessage)
	}
	return "An unknown error happened during the synchronization, please check the server logs."
}
