package rod

// Test pages served by httptest in the integration tests.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	TallHTML = `<!DOCTYPE html>
<html>
<head><style>body { margin: 0; }</style></head>
<body>
	<div style="height: 3000px; background: linear-gradient(#fff, #000);">Tall</div>
</body>
</html>`

	WideHTML = `<!DOCTYPE html>
<html>
<head><style>body { margin: 0; }</style></head>
<body>
	<div style="width: 2000px; height: 400px;">Wide</div>
</body>
</html>`
)
