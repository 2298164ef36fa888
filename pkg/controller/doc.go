// Package controller owns the runtime lifecycle of one rendered form: field
// validation triggers, submission through a transport and the timed
// presentation of success and error banners.
//
// Create one Controller per rendered form instance and keep it for the
// lifetime of the page. Controllers share no state with each other.
package controller
