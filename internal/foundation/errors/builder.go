package errors

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts a builder with severity error and no hint.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
	}}
}

// WrapError starts a builder around cause.
func WrapError(cause error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(cause)
}

func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.with(key, value)
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	b.err.severity = SeverityFatal
	return b
}

func (b *ErrorBuilder) Warning() *ErrorBuilder {
	b.err.severity = SeverityWarning
	return b
}

// UserAction marks errors the user resolves by changing input.
func (b *ErrorBuilder) UserAction() *ErrorBuilder {
	b.err.hint = HintUserAction
	return b
}

// Transient marks errors that may not recur, such as upstream outages.
func (b *ErrorBuilder) Transient() *ErrorBuilder {
	b.err.hint = HintTransient
	return b
}

// Build returns the error. The builder may be reused; later changes do not
// affect errors already built.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	return &out
}

// ConfigError is a fatal configuration problem.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal().UserAction()
}

// ValidationError is a fatal problem with flags, requests or documents.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal().UserAction()
}

// FetchFailure is a network failure or non-2xx response.
func FetchFailure(message string) *ErrorBuilder {
	return NewError(CategoryFetch, message).Transient()
}

// MalformedData is site data that is not a JSON object.
func MalformedData(message string) *ErrorBuilder {
	return NewError(CategoryMalformedData, message)
}

// MissingFrontmatter is a content document without a metadata block.
func MissingFrontmatter(message string) *ErrorBuilder {
	return NewError(CategoryMissingFrontmatter, message)
}

// InvalidFrontmatter is a metadata block that cannot be decoded.
func InvalidFrontmatter(message string) *ErrorBuilder {
	return NewError(CategoryInvalidFrontmatter, message)
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

func RuntimeError(message string) *ErrorBuilder {
	return NewError(CategoryRuntime, message).Fatal()
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
