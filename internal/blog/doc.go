// Package blog contains the pages of the example blog.
//
// The page tree is built from components: Router picks BlogIndexPage for
// "/" and Post for any other path, and wraps the result in BlogLayout,
// which ends with Footer. Post reads its content from a content.Source;
// a missing post propagates as a not-found error and the HTTP boundary
// answers 404.
package blog
