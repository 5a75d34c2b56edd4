package shortener_test

const testURL = "https://example.com"
