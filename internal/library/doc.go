// Package library is the data access layer for the user's book collection.
//
// # Overview
//
// Every read and write of the collection goes through the Store interface.
// Two implementations exist and one of them is chosen once at startup by
// New:
//
//   - MemoryStore: used in preview mode (no backend configured). Books live
//     in process memory and disappear on exit.
//   - RemoteStore: talks to the library-records backend over HTTP, sending
//     the session's bearer token with every request.
//
// The UI never branches on the mode; it holds a Store and calls it.
//
// # Backend Endpoints
//
//	GET    /api/app-library/books        -> []Book
//	POST   /api/app-library/books        {googleBooksId,title,authors,thumbnailUrl,status} -> Book
//	PUT    /api/app-library/books/{id}   {status,lentTo?} -> Book
//	DELETE /api/app-library/books/{id}   -> 204
//
// # Errors
//
// All failures wrap ErrOperationFailed and name the attempted action
// ("fetch books", "save book", "update book", "delete book"). A non-2xx
// response, a transport error and a missing id in the memory store all take
// the same path. Nothing is retried.
//
// # Borrowers
//
// LentTo is only meaningful while a book is lent. Change.Normalize clears
// it for every other status and both stores apply it before writing, so
// moving a book from lent to read never keeps the old borrower.
package library
