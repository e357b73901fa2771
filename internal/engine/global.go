package engine

// Global receives calls without a class: the driver entry points.
type Global struct {
	engine *Engine
}

var globalMethods = map[string]func(*Global, Args) (any, error){
	"pipe_screen_create":  (*Global).screenCreate,
	"pipe_context_create": (*Global).contextCreate,
}

// Class implements Target.
func (g *Global) Class() string { return ClassGlobal }

// Invoke implements Target.
func (g *Global) Invoke(method string, args Args) (any, error) {
	return invoke(g, ClassGlobal, globalMethods, method, args)
}

func (g *Global) screenCreate(Args) (any, error) {
	real, err := g.engine.driver.CreateScreen()
	if err != nil {
		return nil, backendFailure("create screen", err)
	}
	return newScreen(g.engine, real), nil
}

func (g *Global) contextCreate(args Args) (any, error) {
	r := newReader(args, "pipe_context_create")
	screen := as[*Screen](r, "screen")
	if r.err != nil {
		return nil, r.err
	}
	if screen == nil {
		return nil, badArgument("pipe_context_create: screen is NULL")
	}
	return screen.createContext()
}
