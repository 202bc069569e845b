// Package github talks to GitHub for the pr command group.
//
// Pull request listing, viewing, creation and checkout go through the gh CLI
// so that authentication and host configuration stay with gh. Review
// comments are fetched over the GraphQL API because gh does not expose
// review threads with their resolved state.
package github
