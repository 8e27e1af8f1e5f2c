package response

type Success struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type Error struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	// Detail carries the wrapped error chain outside production
	Detail string `json:"detail,omitempty"`
}

func OK(data interface{}) Success {
	return Success{Success: true, Data: data}
}

func Msg(message string) Success {
	return Success{Success: true, Message: message}
}
