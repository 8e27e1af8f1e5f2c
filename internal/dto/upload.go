package dto

// UploadOptions is the sidecar options object of an upload request,
// validated independently of the file itself.
type UploadOptions struct {
	Folder   string   `validate:"omitempty,max=100"`
	PublicID string   `validate:"omitempty,max=100"`
	Tags     []string `validate:"omitempty,dive,min=1,max=100"`
	Optimize bool
}
