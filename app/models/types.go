package models

import "time"

// Author is the stored name pair of a post's writer.
type Author struct {
	FirstName string `json:"firstName" bson:"firstName" validate:"required"`
	LastName  string `json:"lastName" bson:"lastName" validate:"required"`
}

// BlogPost represents a stored blog post.
type BlogPost struct {
	ID      string    `json:"id" bson:"-" validate:"-"`
	Author  Author    `json:"author" bson:"author"`
	Title   string    `json:"title" bson:"title" validate:"required"`
	Content string    `json:"content" bson:"content" validate:"required"`
	Created time.Time `json:"created" bson:"created" validate:"-"`
}

// PostView is the API representation of a post.
type PostView struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Created time.Time `json:"created"`
}

// PostUpdate carries the fields a client wants replaced. Nil fields are left untouched.
type PostUpdate struct {
	ID      string  `json:"id,omitempty" validate:"-"`
	Title   *string `json:"title,omitempty" validate:"omitnil,min=1"`
	Content *string `json:"content,omitempty" validate:"omitnil,min=1"`
	Author  *Author `json:"author,omitempty" validate:"omitnil"`
}
