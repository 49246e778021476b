package domain

// FeedRequest описывает запрос к ленте новостей. Body, если задан,
// отправляется как JSON.
type FeedRequest struct {
	Method string
	URL    string
	Body   []byte
}
