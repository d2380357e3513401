// Package templates provides project scaffolding for flight init.
//
// # Available Templates
//
//   - blog: posts in a local directory, live reload enabled
//   - s3: posts in an S3 bucket, metrics and JSON logs enabled
//   - split: a wire server and an HTML tier proxying it
//
// # Usage
//
//	tmpl, err := templates.Get("blog")
//	if err != nil {
//	    return err
//	}
//	return tmpl.Create(projectDir, templates.Config{Title: "Notes"})
//
// # Template Variables
//
//	{{.Title}}            - Site title
//	{{.Author}}           - Footer author
//	{{.Address}}          - Listen address
//	{{.Bucket}}           - S3 bucket (s3)
//	{{.Region}}           - S3 region (s3)
//	{{.UpstreamAddress}}  - Wire tier address (split)
//
// Values written into flight.json go through the json function so that
// quotes and backslashes stay valid JSON.
package templates
