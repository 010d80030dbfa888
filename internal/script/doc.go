// Package script runs Lua scripts against an event bus.
//
// Scripts see a sandboxed gopher-lua state with the base, table, string
// and math libraries and a global shotgun module:
//
//	local key = shotgun.listen("app/save", function(doc)
//	    print("saved", doc.name)
//	end)
//	shotgun.fire("app/save", {name = "notes.txt"})
//	shotgun.fire("app/*")                 -- app and everything below it
//	shotgun.remove("app/save", key)
//
//	shotgun.register_internal("app/ready")
//	shotgun.listen(shotgun.internal("app/ready"), on_ready)
//
//	shotgun.attempt(function() error({code = 1}) end, "app/failed")
//
// Values crossing the boundary are converted by ToGoValue and ToLuaValue.
// A Lua error raised inside a listener aborts the Fire that invoked it
// and, when that Fire came from Lua, is re-raised with the value it carried.
//
// Each DoString and DoFile call runs under a context and an optional
// timeout enforced through LState.SetContext.
package script
