// Package build prerenders every page of a local site into static HTML.
//
// The home page is written to <output>/index.html and each content file
// <content_dir>/<slug>.html to <output>/<slug>/index.html. Site resource
// directories are copied alongside so rendered links keep working.
package build
