package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconPen     = "\uf040" // pencil
	IconCheck   = "\uf00c" // check
	IconWarning = "\uf071" // warning
	IconInfo    = "\uf05a" // info
	IconFile    = "\uf15c" // file text
)
