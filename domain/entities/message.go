package entities

// Message is the body of every published message: the metadata plus the data itself
type Message[T any] struct {
	Metadata Metadata `json:"metadata"`
	Data     T        `json:"data"`
}

func NewMessage[T any](metadata Metadata, data T) Message[T] {
	return Message[T]{
		Metadata: metadata,
		Data:     data,
	}
}

func (m Message[T]) GetMetadata() Metadata {
	return m.Metadata
}
