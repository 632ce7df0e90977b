package posts

import "github.com/socialhub/go-services/internal/document"

// Container is the partitioned container posts are stored in.
const Container = "posts"

// Post is a published post. Media holds an object-store name or is empty.
type Post struct {
	document.Meta `bson:",inline"`
	Title         string `json:"title" bson:"title"`
	Body          string `json:"body" bson:"body"`
	Media         string `json:"media" bson:"media,omitempty"`
}

// Patch is the body of a replace request. id and creationTimestamp in the
// request are ignored.
type Patch struct {
	Title document.Optional[string] `json:"title"`
	Body  document.Optional[string] `json:"body"`
	Media document.Optional[string] `json:"media"`
}

func (p Patch) Apply(post *Post, policy document.UpdatePolicy) {
	document.SetString(policy, &post.Title, p.Title)
	document.SetString(policy, &post.Body, p.Body)
	document.SetString(policy, &post.Media, p.Media)
}

// CreateInput carries the caller-controlled fields of a new post.
type CreateInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Media string `json:"media"`
}
